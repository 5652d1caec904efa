package gcrt

import (
	"fmt"

	"github.com/gowasm/jitrt/api"
)

// object is one allocated struct or array instance.
type object struct {
	kind     TypeKind
	typeIdx  int32
	fields   []uint64 // struct: one per declared field
	elems    []uint64 // array: one per element
	elemType FieldType
}

// Heap owns every live GC object for one VM instance, keyed by the 1-based
// gc_ref identity spec.md §4.8 specifies ("value = gc_ref << 1").
type Heap struct {
	objects map[uint64]*object
	nextRef uint64
}

// NewHeap returns an empty heap.
func NewHeap() *Heap {
	return &Heap{objects: make(map[uint64]*object), nextRef: 1}
}

func (h *Heap) alloc(o *object) api.Ref {
	ref := h.nextRef
	h.nextRef++
	h.objects[ref] = o
	return api.EncodeHeap(ref)
}

func (h *Heap) lookup(r api.Ref) (*object, error) {
	if api.KindOf(r) != api.KindHeap {
		return nil, fmt.Errorf("gcrt: reference is not a heap reference")
	}
	o, ok := h.objects[api.DecodeHeap(r)]
	if !ok {
		return nil, fmt.Errorf("gcrt: dangling heap reference")
	}
	return o, nil
}

// NewStruct allocates a struct of type typeIdx with the given field
// values.
func (h *Heap) NewStruct(cache *TypeCache, typeIdx int32, fields []uint64) (api.Ref, error) {
	def, ok := cache.Lookup(typeIdx)
	if !ok || def.Kind != KindStruct {
		return api.RefNull, fmt.Errorf("gcrt: NewStruct: %d is not a registered struct type", typeIdx)
	}
	if len(fields) != len(def.FieldTypes) {
		return api.RefNull, fmt.Errorf("gcrt: NewStruct: type %d has %d fields, got %d values", typeIdx, len(def.FieldTypes), len(fields))
	}
	return h.alloc(&object{kind: KindStruct, typeIdx: typeIdx, fields: append([]uint64(nil), fields...)}), nil
}

// NewStructDefault allocates a struct of type typeIdx with every field
// zero-valued.
func (h *Heap) NewStructDefault(cache *TypeCache, typeIdx int32) (api.Ref, error) {
	def, ok := cache.Lookup(typeIdx)
	if !ok || def.Kind != KindStruct {
		return api.RefNull, fmt.Errorf("gcrt: NewStructDefault: %d is not a registered struct type", typeIdx)
	}
	return h.alloc(&object{kind: KindStruct, typeIdx: typeIdx, fields: make([]uint64, len(def.FieldTypes))}), nil
}

// StructGet returns field fieldIdx of the struct referenced by r.
func (h *Heap) StructGet(r api.Ref, fieldIdx int) (uint64, error) {
	o, err := h.lookup(r)
	if err != nil {
		return 0, err
	}
	if o.kind != KindStruct || fieldIdx < 0 || fieldIdx >= len(o.fields) {
		return 0, fmt.Errorf("gcrt: StructGet: field index %d out of range", fieldIdx)
	}
	return o.fields[fieldIdx], nil
}

// StructSet writes field fieldIdx of the struct referenced by r.
func (h *Heap) StructSet(r api.Ref, fieldIdx int, value uint64) error {
	o, err := h.lookup(r)
	if err != nil {
		return err
	}
	if o.kind != KindStruct || fieldIdx < 0 || fieldIdx >= len(o.fields) {
		return fmt.Errorf("gcrt: StructSet: field index %d out of range", fieldIdx)
	}
	o.fields[fieldIdx] = value
	return nil
}

// NewArray allocates an array of type typeIdx, length elements, each
// initialized to init.
func (h *Heap) NewArray(cache *TypeCache, typeIdx int32, length int, init uint64) (api.Ref, error) {
	def, ok := cache.Lookup(typeIdx)
	if !ok || def.Kind != KindArray {
		return api.RefNull, fmt.Errorf("gcrt: NewArray: %d is not a registered array type", typeIdx)
	}
	if length < 0 {
		return api.RefNull, fmt.Errorf("gcrt: NewArray: negative length %d", length)
	}
	elems := make([]uint64, length)
	for i := range elems {
		elems[i] = init
	}
	return h.alloc(&object{kind: KindArray, typeIdx: typeIdx, elems: elems, elemType: def.ElemType}), nil
}

// NewArrayDefault allocates a zero-valued array of type typeIdx.
func (h *Heap) NewArrayDefault(cache *TypeCache, typeIdx int32, length int) (api.Ref, error) {
	return h.NewArray(cache, typeIdx, length, 0)
}

// ArrayLen returns the element count of the array referenced by r.
func (h *Heap) ArrayLen(r api.Ref) (int, error) {
	o, err := h.lookup(r)
	if err != nil {
		return 0, err
	}
	if o.kind != KindArray {
		return 0, fmt.Errorf("gcrt: ArrayLen: not an array reference")
	}
	return len(o.elems), nil
}

// ArrayGet returns element idx of the array referenced by r.
func (h *Heap) ArrayGet(r api.Ref, idx int) (uint64, error) {
	o, err := h.lookup(r)
	if err != nil {
		return 0, err
	}
	if o.kind != KindArray || idx < 0 || idx >= len(o.elems) {
		return 0, fmt.Errorf("gcrt: ArrayGet: index %d out of range", idx)
	}
	return o.elems[idx], nil
}

// ArraySet writes element idx of the array referenced by r.
func (h *Heap) ArraySet(r api.Ref, idx int, value uint64) error {
	o, err := h.lookup(r)
	if err != nil {
		return err
	}
	if o.kind != KindArray || idx < 0 || idx >= len(o.elems) {
		return fmt.Errorf("gcrt: ArraySet: index %d out of range", idx)
	}
	o.elems[idx] = value
	return nil
}

// ArrayFill writes value to length consecutive elements starting at dst.
func (h *Heap) ArrayFill(r api.Ref, dst int, value uint64, length int) error {
	o, err := h.lookup(r)
	if err != nil {
		return err
	}
	if o.kind != KindArray || dst < 0 || length < 0 || len(o.elems)-dst < length {
		return fmt.Errorf("gcrt: ArrayFill: range [%d,%d) out of bounds", dst, dst+length)
	}
	for i := dst; i < dst+length; i++ {
		o.elems[i] = value
	}
	return nil
}

// ArrayCopy copies length elements from src in the array referenced by
// srcRef to dst in the array referenced by dstRef (which may be the same
// array).
func (h *Heap) ArrayCopy(dstRef api.Ref, dst int, srcRef api.Ref, src int, length int) error {
	d, err := h.lookup(dstRef)
	if err != nil {
		return err
	}
	s, err := h.lookup(srcRef)
	if err != nil {
		return err
	}
	if d.kind != KindArray || s.kind != KindArray {
		return fmt.Errorf("gcrt: ArrayCopy: not an array reference")
	}
	if dst < 0 || src < 0 || length < 0 || len(d.elems)-dst < length || len(s.elems)-src < length {
		return fmt.Errorf("gcrt: ArrayCopy: range out of bounds")
	}
	copy(d.elems[dst:dst+length], s.elems[src:src+length])
	return nil
}

// TypeIndexOf returns the type index of the heap object referenced by r,
// used by ref.test/ref.cast's concrete-match step.
func (h *Heap) TypeIndexOf(r api.Ref) (int32, TypeKind, error) {
	o, err := h.lookup(r)
	if err != nil {
		return 0, 0, err
	}
	return o.typeIdx, o.kind, nil
}
