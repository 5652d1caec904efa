package vmctx

import (
	"fmt"

	"github.com/gowasm/jitrt/internal/fdtable"
)

// wasiState holds the args/env/preopen/fd fields spec.md §3 lists under
// WASI initialization. Unlike the frozen prefix, none of this needs a
// fixed byte offset: generated code never reads these directly, it only
// reaches them through wasip1's host-function trampolines, which receive
// *VMContext.
type wasiState struct {
	args []string
	envp []string
}

// InitWASIFds installs the fd table, wiring stdio to the host (or to
// /dev/null when quiet is true).
func (vm *VMContext) InitWASIFds(quiet bool) error {
	t, err := fdtable.New(quiet)
	if err != nil {
		return fmt.Errorf("vmctx: InitWASIFds: %w", err)
	}
	vm.fds = t
	return nil
}

// FDs returns the WASI fd table, or nil if InitWASIFds was never called.
func (vm *VMContext) FDs() *fdtable.Table { return vm.fds }

// AddPreopen registers a preopen directory pair; must be called after
// InitWASIFds and before any application fd is opened.
func (vm *VMContext) AddPreopen(hostPath, guestPath string) (uint32, error) {
	if vm.fds == nil {
		return 0, fmt.Errorf("vmctx: AddPreopen before InitWASIFds")
	}
	fd, err := vm.fds.AddPreopen(hostPath, guestPath)
	if err == nil {
		vm.Logger().PreopenResolved(hostPath, guestPath, fd)
	}
	return fd, err
}

// SetWASIArgs installs the guest argv.
func (vm *VMContext) SetWASIArgs(args []string) {
	vm.wasi.args = append([]string(nil), args...)
}

// SetWASIEnviron installs the guest environ, each entry "KEY=VALUE".
func (vm *VMContext) SetWASIEnviron(env []string) {
	vm.wasi.envp = append([]string(nil), env...)
}

// WASIArgs and WASIEnviron expose the installed argv/environ.
func (vm *VMContext) WASIArgs() []string    { return vm.wasi.args }
func (vm *VMContext) WASIEnviron() []string { return vm.wasi.envp }
