// Package tablert implements the table libcalls of spec.md §4.6:
// table.grow, table.fill, table.copy, each bounds-checked against a
// per-table declared max. See SPEC_FULL.md §6.6.
package tablert

import (
	"unsafe"

	"github.com/gowasm/jitrt/api"
	"github.com/gowasm/jitrt/internal/trap"
	"github.com/gowasm/jitrt/internal/vmctx"
)

// Grow reallocates tableIdx's pair array, copies the existing entries, and
// fills the new slots with (init, type_idx=NoType), mirroring table 0 into
// the fast-path fields when tableIdx == 0. Returns the previous size, or -1
// if growing by delta would exceed the table's declared max.
func Grow(vm *vmctx.VMContext, tableIdx int, delta int64, init api.Ref) (int64, error) {
	if delta < 0 {
		return -1, nil
	}
	entries, err := vm.TableEntries(tableIdx)
	if err != nil {
		return 0, err
	}
	prev := int64(len(entries))
	newSize := prev + delta
	if newSize > vm.TableMax(tableIdx) {
		return -1, nil
	}

	grown := make([]vmctx.TableEntry, newSize)
	copy(grown, entries)
	for i := prev; i < newSize; i++ {
		grown[i] = vmctx.TableEntry{Ref: init, TypeIdx: vmctx.NoType}
	}

	if err := vm.SetTableEntries(tableIdx, grown, vm.TableMax(tableIdx)); err != nil {
		return 0, err
	}
	return prev, nil
}

// Fill writes (val, inferred type index) to length consecutive entries
// starting at dst in tableIdx. When val is a tagged funcref, the type
// index is inferred by searching the function-pointer table for a match;
// any other kind gets NoType, matching spec.md §4.6.
func Fill(vm *vmctx.VMContext, tableIdx int, dst int64, val api.Ref, length int64) error {
	entries, err := vm.TableEntries(tableIdx)
	if err != nil {
		return err
	}
	if length < 0 || dst < 0 || int64(len(entries))-dst < length {
		return trap.New(trap.CodeOutOfBoundsMemoryAccess)
	}

	typeIdx := inferFuncrefType(vm, val)
	for i := dst; i < dst+length; i++ {
		entries[i] = vmctx.TableEntry{Ref: val, TypeIdx: typeIdx}
	}
	return nil
}

// Copy copies length entries from srcIdx[src:] to dstIdx[dst:]. Intra-table
// copies use Go's built-in copy (memmove-equivalent, overlap-safe);
// cross-table copies never alias.
func Copy(vm *vmctx.VMContext, dstIdx, srcIdx int, dst, src, length int64) error {
	dstEntries, err := vm.TableEntries(dstIdx)
	if err != nil {
		return err
	}
	srcEntries, err := vm.TableEntries(srcIdx)
	if err != nil {
		return err
	}
	if length < 0 || dst < 0 || src < 0 {
		return trap.New(trap.CodeOutOfBoundsMemoryAccess)
	}
	if int64(len(dstEntries))-dst < length || int64(len(srcEntries))-src < length {
		return trap.New(trap.CodeOutOfBoundsMemoryAccess)
	}
	copy(dstEntries[dst:dst+length], srcEntries[src:src+length])
	return nil
}

// inferFuncrefType searches the function-pointer table for a match when val
// is a tagged funcref, per spec.md §4.6; any other kind gets NoType.
func inferFuncrefType(vm *vmctx.VMContext, val api.Ref) int64 {
	if api.KindOf(val) != api.KindFuncPtr {
		return vmctx.NoType
	}
	ptr := unsafe.Pointer(uintptr(api.DecodeFuncPtr(val)))
	if _, typeIdx, ok := vm.FuncIndexOf(ptr); ok {
		return typeIdx
	}
	return vmctx.NoType
}
