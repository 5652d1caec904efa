package vmctx

import "github.com/gowasm/jitrt/internal/trap"

// guardedMemory holds the reserved-region bounds for the §4.5 guarded-
// memory discipline: the 8 GiB + 64 KiB PROT_NONE reservation that makes
// out-of-bounds linear-memory accesses fault deterministically.
type guardedMemory struct {
	active   bool
	base     uintptr
	reserved uintptr // total reserved size, including the 64 KiB slack
}

// EnableGuardedMemory records the reservation bounds for a guarded-memory
// backing (populated by internal/memoryrt's guarded backend). vmctx itself
// never performs the mmap/mprotect calls; it only remembers where the
// reservation lives so internal/trap's fault classifier can consult it
// through the GuardedRegion interface.
func (vm *VMContext) EnableGuardedMemory(base uintptr, reservedSize uintptr) {
	vm.guard = guardedMemory{active: true, base: base, reserved: reservedSize}
}

// InGuardReservation implements trap.GuardedRegion.
func (vm *VMContext) InGuardReservation(addr uintptr) bool {
	if !vm.guard.active {
		return false
	}
	return addr >= vm.guard.base && addr < vm.guard.base+vm.guard.reserved
}

// SetWASMStack configures the optional WebAssembly operand-stack region and
// its guard page, per spec.md §3.
func (vm *VMContext) SetWASMStack(base, top, size uintptr, guardPageSize uintptr) {
	vm.wasmStack = wasmStackRegion{base: base, top: top, size: size, guardPageSize: guardPageSize}
	vm.wasmStack.guard = base + guardPageSize
}

// WASMStackGuard returns the address of the WebAssembly stack's guard page,
// 0 if no such region is configured.
func (vm *VMContext) WASMStackGuard() uintptr { return vm.wasmStack.guard }

// CallGuard returns this context's reentrancy guard for internal/trampoline
// to arm around a call.
func (vm *VMContext) CallGuard() *trap.Guard { return &vm.callGuard }

// GuardedMemoryActive reports whether EnableGuardedMemory has configured a
// reservation for memory 0, for internal/memoryrt to select its growth
// backend.
func (vm *VMContext) GuardedMemoryActive() bool { return vm.guard.active }

// GuardReservationBase and GuardReservationSize expose the reservation
// bounds to internal/memoryrt's guarded backend, which owns the actual
// mmap/mprotect calls (vmctx only remembers where the reservation lives).
func (vm *VMContext) GuardReservationBase() uintptr { return vm.guard.base }
func (vm *VMContext) GuardReservationSize() uintptr { return vm.guard.reserved }
