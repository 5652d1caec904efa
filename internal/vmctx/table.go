package vmctx

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/gowasm/jitrt/api"
)

// TableEntry is one table slot: two machine words, a tagged reference and
// its signed type index (-1 = unknown/uninitialized), per spec.md §3.
// Layout matters here (the code generator indexes this as a flat pair
// array), so the two fields must stay in this order with no padding
// between them -- both are already 8 bytes wide on every supported
// platform, so the Go compiler never inserts any.
type TableEntry struct {
	Ref     api.Ref
	TypeIdx int64
}

// NoType is the "unknown/uninitialized" sentinel for TableEntry.TypeIdx.
const NoType int64 = -1

// UnboundedMax is how an unbounded table/memory max is represented in this
// port; the C source's SIZE_MAX becomes math.MaxInt64 since Go table sizes
// are signed (spec.md §4.6).
const UnboundedMax int64 = math.MaxInt64

// table0Storage is the owned/borrowed tagged pointer spec.md §9 asks for
// in place of the C source's bare owns_indirect_table bit: Owned(T) |
// Borrowed(T).
type table0Storage struct {
	owned   bool
	entries []TableEntry // backing array when owned
}

func (t *table0Storage) free() {
	if t.owned {
		t.entries = nil
	}
	t.owned = false
}

// tableStorage is the equivalent for tables[1..] in multi-table mode. Table
// 0 uses table0Storage (and is mirrored into tableStorage at index 0 when
// multi-table mode is configured via SetTablePointers) so both fast-path
// and indexed access always see a consistent view.
type tableStorage struct {
	owned   bool
	entries []TableEntry
	max     int64
}

func (t *tableStorage) free() {
	if t.owned {
		t.entries = nil
	}
	t.owned = false
}

// AllocIndirectTable allocates an owned table-0 pair array of count
// entries, all type indices set to NoType, and sets the owns-bit. Any
// previously borrowed or owned table 0 is released first.
func (vm *VMContext) AllocIndirectTable(count int) error {
	if count < 0 {
		return fmt.Errorf("vmctx: AllocIndirectTable count must be >= 0, got %d", count)
	}
	vm.table0.free()
	entries := make([]TableEntry, count)
	for i := range entries {
		entries[i].TypeIdx = NoType
	}
	vm.table0 = table0Storage{owned: true, entries: entries}
	vm.refreshTable0Fields()
	if len(vm.tableSizes) == 0 {
		vm.tableSizes = []int64{int64(count)}
		vm.tableMax = []int64{UnboundedMax}
	} else {
		vm.tableSizes[0] = int64(count)
	}
	return nil
}

// UseSharedTable reconfigures table 0 to borrow an externally owned table;
// the owns-bit is cleared and any prior owned table is freed first.
func (vm *VMContext) UseSharedTable(shared []TableEntry) {
	vm.table0.free()
	vm.table0 = table0Storage{owned: false, entries: shared}
	vm.refreshTable0Fields()
	if len(vm.tableSizes) == 0 {
		vm.tableSizes = []int64{int64(len(shared))}
		vm.tableMax = []int64{UnboundedMax}
	} else {
		vm.tableSizes[0] = int64(len(shared))
	}
}

// OwnsIndirectTable reports the owns-bit spec.md §3 names.
func (vm *VMContext) OwnsIndirectTable() bool { return vm.table0.owned }

// Table0Entries exposes table 0's backing slice for libcalls.
func (vm *VMContext) Table0Entries() []TableEntry { return vm.table0.entries }

func (vm *VMContext) refreshTable0Fields() {
	entries := vm.table0.entries
	vm.Table0Elements = uint64(len(entries))
	if len(entries) > 0 {
		vm.Table0Base = unsafe.Pointer(&entries[0])
	} else {
		vm.Table0Base = nil
	}
	// Keep tables[0] consistent when multi-table mode is already active.
	if len(vm.tables) > 0 {
		vm.tables[0] = tableStorage{owned: vm.table0.owned, entries: entries, max: vm.tables[0].max}
		vm.refreshTablesPointerField()
	}
}

// SetTablePointers configures multi-table mode: ptrs[i] is the backing
// array for table i, sizes[i]/maxSizes[i] its length/cap (UnboundedMax for
// no declared max). When at least one table exists, table 0 is mirrored
// into the fast-path fields as a borrow, per spec.md §4.3.
func (vm *VMContext) SetTablePointers(ptrs [][]TableEntry, sizes []int64, maxSizes []int64) error {
	if len(ptrs) != len(sizes) || len(ptrs) != len(maxSizes) {
		return fmt.Errorf("vmctx: SetTablePointers length mismatch: %d ptrs, %d sizes, %d max", len(ptrs), len(sizes), len(maxSizes))
	}
	for i := range vm.tables {
		vm.tables[i].free()
	}
	tables := make([]tableStorage, len(ptrs))
	for i, p := range ptrs {
		tables[i] = tableStorage{owned: false, entries: p, max: maxSizes[i]}
	}
	vm.tables = tables
	vm.tableSizes = append([]int64(nil), sizes...)
	vm.tableMax = append([]int64(nil), maxSizes...)
	vm.TableCount = uint32(len(tables))
	vm.Generation++

	if len(tables) > 0 {
		// Table 0 becomes a borrow of tables[0]; any table0 this context
		// owned outright is released since it is no longer reachable via
		// Table0Base.
		vm.table0.free()
		vm.table0 = table0Storage{owned: false, entries: tables[0].entries}
		vm.Table0Elements = uint64(len(tables[0].entries))
		if len(tables[0].entries) > 0 {
			vm.Table0Base = unsafe.Pointer(&tables[0].entries[0])
		} else {
			vm.Table0Base = nil
		}
	}
	vm.refreshTablesPointerField()
	return nil
}

func (vm *VMContext) refreshTablesPointerField() {
	ptrs := make([]unsafe.Pointer, len(vm.tables))
	for i := range vm.tables {
		if len(vm.tables[i].entries) > 0 {
			ptrs[i] = unsafe.Pointer(&vm.tables[i].entries[0])
		}
	}
	vm.tablePtrs = ptrs
	if len(ptrs) > 0 {
		vm.Tables = unsafe.Pointer(&ptrs[0])
	} else {
		vm.Tables = nil
	}
}

// SetIndirect stores an entry in table tableIdx; bounds-checked against
// that table's current size.
func (vm *VMContext) SetIndirect(tableIdx int, funcIdx int, typeIdx int64) error {
	entries, err := vm.tableEntries(tableIdx)
	if err != nil {
		return err
	}
	if funcIdx < 0 || funcIdx >= len(entries) {
		return fmt.Errorf("vmctx: SetIndirect index %d out of range [0,%d) in table %d", funcIdx, len(entries), tableIdx)
	}
	ptr, err := vm.Func(funcIdx)
	if err != nil {
		return err
	}
	entries[funcIdx] = TableEntry{Ref: api.EncodeFuncPtr(uint64(uintptr(ptr))), TypeIdx: typeIdx}
	return nil
}

// tableEntries resolves tableIdx to its backing slice, table 0 included.
func (vm *VMContext) tableEntries(tableIdx int) ([]TableEntry, error) {
	if tableIdx == 0 && len(vm.tables) == 0 {
		return vm.table0.entries, nil
	}
	if tableIdx < 0 || tableIdx >= len(vm.tables) {
		return nil, fmt.Errorf("vmctx: table index %d out of range [0,%d)", tableIdx, len(vm.tables))
	}
	return vm.tables[tableIdx].entries, nil
}

// TableEntries exposes tableIdx's backing slice for libcalls.
func (vm *VMContext) TableEntries(tableIdx int) ([]TableEntry, error) {
	return vm.tableEntries(tableIdx)
}

// TableMax returns the declared max for tableIdx, UnboundedMax if none.
func (vm *VMContext) TableMax(tableIdx int) int64 {
	if tableIdx < len(vm.tableMax) {
		return vm.tableMax[tableIdx]
	}
	return UnboundedMax
}

// SetTableEntries replaces tableIdx's backing slice after a grow,
// refreshing the fast-path mirror fields when tableIdx == 0.
func (vm *VMContext) SetTableEntries(tableIdx int, entries []TableEntry, newMax int64) error {
	if tableIdx == 0 && len(vm.tables) == 0 {
		vm.table0 = table0Storage{owned: true, entries: entries}
		vm.refreshTable0Fields()
		if len(vm.tableSizes) == 0 {
			vm.tableSizes = []int64{int64(len(entries))}
			vm.tableMax = []int64{newMax}
		} else {
			vm.tableSizes[0] = int64(len(entries))
		}
		return nil
	}
	if tableIdx < 0 || tableIdx >= len(vm.tables) {
		return fmt.Errorf("vmctx: table index %d out of range [0,%d)", tableIdx, len(vm.tables))
	}
	vm.tables[tableIdx] = tableStorage{owned: true, entries: entries, max: newMax}
	vm.tableSizes[tableIdx] = int64(len(entries))
	if tableIdx == 0 {
		vm.refreshTable0Fields()
	}
	vm.refreshTablesPointerField()
	return nil
}
