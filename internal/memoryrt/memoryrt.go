// Package memoryrt implements the linear-memory libcalls of spec.md §4.5:
// memory.grow, memory.size, memory.fill, memory.copy, and their indexed
// variants, plus the optional guarded-memory discipline. See SPEC_FULL.md
// §6.5.
package memoryrt

import (
	"github.com/gowasm/jitrt/internal/trap"
	"github.com/gowasm/jitrt/internal/vmctx"
)

// Size returns memory memIdx's current page count.
func Size(vm *vmctx.VMContext, memIdx int) (int64, error) {
	bytes, err := vm.MemoryAt(memIdx)
	if err != nil {
		return 0, err
	}
	return int64(len(bytes)) / vmctx.WasmPageSize, nil
}

// Grow implements memory.grow: it returns the previous page count, or -1
// if the grow would exceed the effective max (the min of callerMaxPages --
// 0 meaning unbounded -- the module's own declared cap, and
// AbsoluteMaxPages). A -1 result is not a trap; growth simply did not
// happen, matching spec.md §4.5.
func Grow(vm *vmctx.VMContext, memIdx int, deltaPages int64, callerMaxPages int64) (int64, error) {
	if deltaPages < 0 {
		return 0, trap.New(trap.CodeOutOfBoundsMemoryAccess)
	}
	cur, err := vm.MemoryAt(memIdx)
	if err != nil {
		return 0, err
	}
	declaredCap, err := vm.MemoryCapAt(memIdx)
	if err != nil {
		return 0, err
	}

	effectiveMax := int64(vmctx.AbsoluteMaxPages)
	if declaredCap != 0 && int64(declaredCap) < effectiveMax {
		effectiveMax = int64(declaredCap)
	}
	if callerMaxPages != 0 && callerMaxPages < effectiveMax {
		effectiveMax = callerMaxPages
	}

	prevPages := int64(len(cur)) / vmctx.WasmPageSize
	newPages := prevPages + deltaPages
	if newPages > effectiveMax {
		return -1, nil
	}

	grown, ok := backendFor(vm, memIdx).grow(vm, memIdx, cur, newPages)
	if !ok {
		return -1, nil
	}
	if err := vm.SetMemoryAt(memIdx, grown); err != nil {
		return 0, err
	}
	return prevPages, nil
}

// backend is the pluggable growth strategy: realloc-and-zero-fill (the
// default) or guarded-memory page promotion (when EnableGuardedMemory was
// configured on vm for memIdx == 0), per spec.md §4.5's "if guarded mode is
// active... grows via mprotect/VirtualProtect; otherwise realloc and
// zero-fill the new tail."
type backend interface {
	grow(vm *vmctx.VMContext, memIdx int, cur []byte, newPages int64) (grown []byte, ok bool)
}

func backendFor(vm *vmctx.VMContext, memIdx int) backend {
	if memIdx == 0 && vm.GuardedMemoryActive() {
		return guardedBackend{}
	}
	return reallocBackend{}
}
