// Package vmctx implements the per-instance VM context: the control block
// generated machine code reads and writes through a callee-saved pointer,
// at the fixed field-offset contract spec.md §3 defines. See SPEC_FULL.md
// §6.3.
package vmctx

import (
	"fmt"
	"unsafe"

	"github.com/gowasm/jitrt/internal/fdtable"
	"github.com/gowasm/jitrt/internal/rtlog"
	"github.com/gowasm/jitrt/internal/trap"
)

// VMContext is the control block shared with JIT-compiled code. The first
// nine fields, through FuncCount, are frozen at the byte offsets spec.md §3
// specifies; offsets_test.go asserts this with unsafe.Offsetof so a field
// reorder fails at test time rather than silently corrupting generated
// code. Every field after FuncCount is a Go-idiomatic implementation detail
// -- the spec only constrains their *semantics*, not their layout, since
// the code generator never reads them directly; it only calls into this
// module's libcalls, which receive *VMContext explicitly (spec.md §4.5's
// "re-entrant variants").
type VMContext struct {
	// --- frozen prefix: offsets 0, 8, 16, 24, 32, 40, 48, 56, 60 ---

	MemoryBase     unsafe.Pointer // 0: linear-memory bytes
	MemorySize     uint64         // 8: size in bytes, multiple of 64 KiB
	FuncTable      unsafe.Pointer // 16: *[FuncCount]unsafe.Pointer
	Table0Base     unsafe.Pointer // 24: fast-path mirror of Tables[0]
	Table0Elements uint64         // 32: length of table 0
	Globals        unsafe.Pointer // 40: *[N]uint64 global-value array
	Tables         unsafe.Pointer // 48: *[TableCount]unsafe.Pointer (multi-table)
	TableCount     uint32         // 56
	FuncCount      uint32         // 60

	// --- everything below: semantics fixed by spec.md, layout is ours ---

	memory    []byte   // owns MemoryBase's backing array when owned
	memoryCap uint32   // module-declared per-memory page cap, 0 = unbounded
	memoryMax uint32   // effective cap already folded with the absolute ceiling

	memories        [][]byte // multi-memory backing arrays, memories[i] is memory i (index 0 included)
	memorySizes     []uint64 // pages, parallel to memories
	memoryMaxSizes  []uint32
	memoryOwns      []bool

	funcTable       []unsafe.Pointer // owns FuncTable's backing array
	funcTypeIndices []int64          // parallel to funcTable; type index per function, for funcref inference

	table0     table0Storage
	tables     []tableStorage // multi-table; tables[0] mirrors table0 when present
	tablePtrs  []unsafe.Pointer // backing array for the Tables field
	tableSizes []int64
	tableMax   []int64 // -1 == unbounded

	globals []uint64 // owns Globals' backing array

	dataSegments     [][]byte
	dataDropped      []bool
	elemSegments     [][]elemEntry
	elemDropped      []bool

	wasi wasiState

	fds *fdtable.Table

	exception exceptionFrame

	spilledLocals []uint64

	wasmStack wasmStackRegion
	guard     guardedMemory

	// callGuard is the per-context reentrancy guard internal/trampoline
	// arms around every call into this context -- scoped here rather than
	// process-global per spec.md §9's redesign.
	callGuard trap.Guard

	// Generation is bumped on Free and on every SetTablePointers call, so a
	// long-lived external cache
	// of a raw function pointer can detect it has gone stale. Advisory
	// only; recovered from original_source/jit/jit_ffi/jit_context.c's
	// generation counter (SPEC_FULL.md §6.3), it is not part of the ABI
	// offset contract.
	Generation uint64

	freed bool

	logger *rtlog.Logger
}

// SetLogger installs the structured logger this context's own libcalls and
// internal/trampoline log through. New contexts default to a no-op logger.
func (vm *VMContext) SetLogger(l *rtlog.Logger) {
	if l == nil {
		l = rtlog.Nop()
	}
	vm.logger = l
}

// Logger returns this context's logger, a no-op one if SetLogger was never
// called.
func (vm *VMContext) Logger() *rtlog.Logger {
	if vm.logger == nil {
		vm.logger = rtlog.Nop()
	}
	return vm.logger
}

// elemEntry is one passive element-segment slot: a tagged reference plus
// its declared type index (-1 for funcref slots with no further subtyping
// info needed).
type elemEntry struct {
	Value   uint64
	TypeIdx int32
}

type exceptionFrame struct {
	handler      unsafe.Pointer
	tag          int32
	values       []uint64
	hasException bool
}

type wasmStackRegion struct {
	base, top, size uintptr
	guard           uintptr
	guardPageSize   uintptr
}

// New allocates a context for a module with funcCount functions. The
// function-pointer array is zeroed, matching spec.md §4.3's staged
// initialization contract ("the function-pointer array is zeroed").
func New(funcCount int) *VMContext {
	vm := &VMContext{FuncCount: uint32(funcCount)}
	if funcCount > 0 {
		vm.funcTable = make([]unsafe.Pointer, funcCount)
		vm.FuncTable = unsafe.Pointer(&vm.funcTable[0])
	}
	vm.tableMax = nil
	return vm
}

// SetFunc installs the native entry point for function idx. Bounds-checked.
func (vm *VMContext) SetFunc(idx int, ptr unsafe.Pointer) error {
	if idx < 0 || idx >= len(vm.funcTable) {
		return fmt.Errorf("vmctx: SetFunc index %d out of range [0,%d)", idx, len(vm.funcTable))
	}
	vm.funcTable[idx] = ptr
	return nil
}

// SetFuncTypeIndices installs the per-function type-index table, parallel
// to the function-pointer table, used to infer a funcref's type index when
// a table operation only has a bare function pointer to work from (spec.md
// §4.6: table.fill "infers the funcref type index by searching the
// function-pointer table").
func (vm *VMContext) SetFuncTypeIndices(typeIndices []int64) {
	vm.funcTypeIndices = append([]int64(nil), typeIndices...)
}

// FuncIndexOf searches the function-pointer table for ptr and returns its
// index and type index, or ok == false if no installed function matches.
func (vm *VMContext) FuncIndexOf(ptr unsafe.Pointer) (funcIdx int, typeIdx int64, ok bool) {
	for i, p := range vm.funcTable {
		if p == ptr {
			typeIdx = NoType
			if i < len(vm.funcTypeIndices) {
				typeIdx = vm.funcTypeIndices[i]
			}
			return i, typeIdx, true
		}
	}
	return 0, NoType, false
}

// Func returns the native entry point for function idx, or nil if unset.
func (vm *VMContext) Func(idx int) (unsafe.Pointer, error) {
	if idx < 0 || idx >= len(vm.funcTable) {
		return nil, fmt.Errorf("vmctx: Func index %d out of range [0,%d)", idx, len(vm.funcTable))
	}
	return vm.funcTable[idx], nil
}

// SetMemory installs memory 0's backing bytes and page count. Idempotent:
// calling it again replaces the previous memory outright (staged
// initializers are idempotent w.r.t. nullable fields, per spec.md §4.3).
func (vm *VMContext) SetMemory(bytes []byte, capPages uint32) {
	vm.memory = bytes
	vm.memoryCap = capPages
	vm.MemorySize = uint64(len(bytes))
	if len(bytes) > 0 {
		vm.MemoryBase = unsafe.Pointer(&bytes[0])
	} else {
		vm.MemoryBase = nil
	}
}

// Memory returns memory 0's backing slice directly (used by the wasip1
// host functions, which bounds-check guest pointers against len(bytes)).
func (vm *VMContext) Memory() []byte { return vm.memory }

// MemoryCap returns the module-declared page cap for memory 0 (0 means
// unbounded, folded against the absolute 65536-page ceiling by the caller).
func (vm *VMContext) MemoryCap() uint32 { return vm.memoryCap }

// SetGlobals installs the global-value array.
func (vm *VMContext) SetGlobals(values []uint64) {
	vm.globals = values
	if len(values) > 0 {
		vm.Globals = unsafe.Pointer(&values[0])
	} else {
		vm.Globals = nil
	}
}

// Globals64 returns the raw global-value slice.
func (vm *VMContext) Globals64() []uint64 { return vm.globals }

// Free releases every owned array. Borrowed resources (a shared indirect
// table, an imported memory) are left untouched -- see table0Storage's
// owned/borrowed tag.
func (vm *VMContext) Free() {
	if vm.freed {
		return
	}
	vm.freed = true
	vm.Generation++

	vm.memory = nil
	vm.MemoryBase = nil
	vm.memories = nil

	vm.funcTable = nil
	vm.FuncTable = nil

	vm.table0.free()
	vm.Table0Base = nil
	vm.Table0Elements = 0
	for i := range vm.tables {
		vm.tables[i].free()
	}
	vm.tables = nil
	vm.Tables = nil
	vm.TableCount = 0

	vm.globals = nil
	vm.Globals = nil

	vm.dataSegments = nil
	vm.elemSegments = nil

	if vm.fds != nil {
		vm.fds.CloseAll()
	}
}

// IsFreed reports whether Free has already run, for callers that want to
// assert against double-free bugs without panicking in production.
func (vm *VMContext) IsFreed() bool { return vm.freed }
