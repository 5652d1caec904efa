package wasip1

import (
	"fmt"

	"github.com/gowasm/jitrt/internal/vmctx"
)

// ExitError is the sentinel proc_exit panics with. An embedder driving
// guest code must recover it at the call boundary and treat it as a
// normal process exit with ExitError.Code, the same way spec.md's trap
// substrate turns execCtx.exitCode into a typed panic (SPEC_FULL.md §6.2)
// rather than calling POSIX exit() directly.
type ExitError struct {
	Code uint32
}

func (e ExitError) Error() string { return fmt.Sprintf("wasip1: proc_exit(%d)", e.Code) }

// ProcExit terminates the current invocation with the given exit code.
// It never returns.
func ProcExit(vm *vmctx.VMContext, code uint32) {
	panic(ExitError{Code: code})
}

// ProcRaise delivers a Unix-style signal number to the current process.
// WASI snapshot-01 only requires that this be observable as termination;
// wazero's own binding and this one both just exit with signal-like code.
func ProcRaise(vm *vmctx.VMContext, sig uint32) Errno {
	panic(ExitError{Code: 128 + sig})
}
