// Package segmentrt implements the bulk-memory/table segment libcalls of
// spec.md §4.7: memory.init, data.drop, table.init, table.copy, table.fill,
// elem.drop. See SPEC_FULL.md §6.7.
package segmentrt

import (
	"github.com/gowasm/jitrt/api"
	"github.com/gowasm/jitrt/internal/tablert"
	"github.com/gowasm/jitrt/internal/trap"
	"github.com/gowasm/jitrt/internal/vmctx"
)

// MemoryInit copies length bytes from passive data segment dataIdx (at
// src) into memory memIdx at dst. Traps on OOB in either the segment or
// the memory; when the segment has been dropped, only length == 0 is
// legal, per spec.md §4.7. Bounds use the strict `size - offset < len`
// inequality in 64-bit arithmetic throughout, never `offset + len > size`.
func MemoryInit(vm *vmctx.VMContext, memIdx int, dataIdx int, dst, src, length int64) error {
	data, dropped, ok := vm.DataSegment(dataIdx)
	if !ok {
		return trap.New(trap.CodeOutOfBoundsMemoryAccess)
	}
	if dropped {
		if length != 0 {
			return trap.New(trap.CodeOutOfBoundsMemoryAccess)
		}
		if src < 0 {
			return trap.New(trap.CodeOutOfBoundsMemoryAccess)
		}
	} else if length < 0 || src < 0 || int64(len(data))-src < length {
		return trap.New(trap.CodeOutOfBoundsMemoryAccess)
	}

	bytes, err := vm.MemoryAt(memIdx)
	if err != nil {
		return err
	}
	if dst < 0 || int64(len(bytes))-dst < length {
		return trap.New(trap.CodeOutOfBoundsMemoryAccess)
	}
	if length == 0 {
		return nil
	}
	copy(bytes[dst:dst+length], data[src:src+length])
	return nil
}

// DataDrop sets data segment dataIdx's dropped bit. Out-of-range indices
// are silent no-ops, per spec.md §4.7.
func DataDrop(vm *vmctx.VMContext, dataIdx int) {
	vm.DropDataSegment(dataIdx)
}

// TableInit mirrors MemoryInit for a passive element segment into table
// tableIdx.
func TableInit(vm *vmctx.VMContext, tableIdx int, elemIdx int, dst, src, length int64) error {
	entries, dropped, ok := vm.ElemSegment(elemIdx)
	if !ok {
		return trap.New(trap.CodeOutOfBoundsMemoryAccess)
	}
	if dropped {
		if length != 0 || src < 0 {
			return trap.New(trap.CodeOutOfBoundsMemoryAccess)
		}
	} else if length < 0 || src < 0 || int64(len(entries))-src < length {
		return trap.New(trap.CodeOutOfBoundsMemoryAccess)
	}

	table, err := vm.TableEntries(tableIdx)
	if err != nil {
		return err
	}
	if dst < 0 || int64(len(table))-dst < length {
		return trap.New(trap.CodeOutOfBoundsMemoryAccess)
	}
	for i := int64(0); i < length; i++ {
		e := entries[src+i]
		table[dst+i] = vmctx.TableEntry{Ref: api.Ref(vmctx.ElemValue(e)), TypeIdx: int64(vmctx.ElemType(e))}
	}
	return nil
}

// TableCopy delegates to internal/tablert's Copy, which already implements
// spec.md §4.6's intra/inter-table overlap rules identically to what
// table.copy needs here.
func TableCopy(vm *vmctx.VMContext, dstIdx, srcIdx int, dst, src, length int64) error {
	return tablert.Copy(vm, dstIdx, srcIdx, dst, src, length)
}

// TableFill delegates to internal/tablert's Fill.
func TableFill(vm *vmctx.VMContext, tableIdx int, dst int64, val api.Ref, length int64) error {
	return tablert.Fill(vm, tableIdx, dst, val, length)
}

// ElemDrop mirrors DataDrop for element segments.
func ElemDrop(vm *vmctx.VMContext, elemIdx int) {
	vm.DropElemSegment(elemIdx)
}
