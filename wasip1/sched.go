package wasip1

import (
	"runtime"

	"github.com/gowasm/jitrt/internal/vmctx"
)

// SchedYield yields the current goroutine's timeslice, the Go analogue of
// a POSIX sched_yield(2) call.
func SchedYield(vm *vmctx.VMContext) Errno {
	runtime.Gosched()
	return ErrnoSuccess
}
