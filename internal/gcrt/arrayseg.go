package gcrt

import (
	"encoding/binary"
	"fmt"

	"github.com/gowasm/jitrt/api"
	"github.com/gowasm/jitrt/internal/vmctx"
)

// NewArrayFromData implements array.new_data: allocates an array of type
// typeIdx with length elements read from data starting at byteOffset,
// respecting the element's storage tag (spec.md §4.8). Reference-typed
// arrays cannot be initialized this way -- the kind check traps, since a
// data segment has no way to carry a reference value.
func NewArrayFromData(h *Heap, cache *TypeCache, typeIdx int32, data []byte, byteOffset int64, length int) (api.Ref, error) {
	def, ok := cache.Lookup(typeIdx)
	if !ok || def.Kind != KindArray {
		return api.RefNull, fmt.Errorf("gcrt: NewArrayFromData: %d is not a registered array type", typeIdx)
	}
	if def.ElemType == FieldRef {
		return api.RefNull, fmt.Errorf("gcrt: NewArrayFromData: array type %d holds references, cannot init from a data segment", typeIdx)
	}

	elemSize := int64(fieldByteSize(def.ElemType))
	need := elemSize * int64(length)
	if byteOffset < 0 || length < 0 || int64(len(data))-byteOffset < need {
		return api.RefNull, fmt.Errorf("gcrt: NewArrayFromData: segment range out of bounds")
	}

	elems := make([]uint64, length)
	for i := 0; i < length; i++ {
		off := byteOffset + int64(i)*elemSize
		elems[i] = readPackedField(def.ElemType, data[off:])
	}
	return h.alloc(&object{kind: KindArray, typeIdx: typeIdx, elems: elems, elemType: def.ElemType}), nil
}

// NewArrayFromElem implements array.new_elem: allocates an array of type
// typeIdx with length reference elements taken from a passive element
// segment starting at index elemOffset.
func NewArrayFromElem(h *Heap, cache *TypeCache, typeIdx int32, segment []vmctx.ElemEntry, elemOffset int64, length int) (api.Ref, error) {
	def, ok := cache.Lookup(typeIdx)
	if !ok || def.Kind != KindArray {
		return api.RefNull, fmt.Errorf("gcrt: NewArrayFromElem: %d is not a registered array type", typeIdx)
	}
	if elemOffset < 0 || length < 0 || int64(len(segment))-elemOffset < int64(length) {
		return api.RefNull, fmt.Errorf("gcrt: NewArrayFromElem: segment range out of bounds")
	}
	elems := make([]uint64, length)
	for i := 0; i < length; i++ {
		elems[i] = vmctx.ElemValue(segment[elemOffset+int64(i)])
	}
	return h.alloc(&object{kind: KindArray, typeIdx: typeIdx, elems: elems, elemType: def.ElemType}), nil
}

func fieldByteSize(f FieldType) int {
	switch f {
	case FieldI8:
		return 1
	case FieldI16:
		return 2
	case FieldI32, FieldF32:
		return 4
	case FieldI64, FieldF64:
		return 8
	default:
		return 8
	}
}

// readPackedField decodes one element from the head of buf per its
// storage tag: i8/i16 are zero-extended to 32 bits, i32/f32 and i64/f64
// read little-endian as their natural width (spec.md §4.8).
func readPackedField(f FieldType, buf []byte) uint64 {
	switch f {
	case FieldI8:
		return uint64(buf[0])
	case FieldI16:
		return uint64(binary.LittleEndian.Uint16(buf))
	case FieldI32, FieldF32:
		return uint64(binary.LittleEndian.Uint32(buf))
	case FieldI64, FieldF64:
		return binary.LittleEndian.Uint64(buf)
	default:
		return 0
	}
}
