package gcrt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gowasm/jitrt/api"
)

func structSuperCache(t *testing.T) *TypeCache {
	t.Helper()
	cache := NewTypeCache()
	require.NoError(t, cache.RegisterType(TypeDef{CanonicalIndex: 0, SuperIndex: CanonStruct, Kind: KindStruct, FieldTypes: []FieldType{FieldI32}}))
	require.NoError(t, cache.RegisterType(TypeDef{CanonicalIndex: 1, SuperIndex: 0, Kind: KindStruct, FieldTypes: []FieldType{FieldI32, FieldI64}}))
	return cache
}

func TestIsSubtypeWalksChain(t *testing.T) {
	cache := structSuperCache(t)
	require.True(t, cache.IsSubtype(1, 0))
	require.True(t, cache.IsSubtype(1, CanonStruct))
	require.False(t, cache.IsSubtype(0, 1))
}

func TestRegisterTypeRejectsCycle(t *testing.T) {
	cache := NewTypeCache()
	require.NoError(t, cache.RegisterType(TypeDef{CanonicalIndex: 0, SuperIndex: 1, Kind: KindStruct}))
	err := cache.RegisterType(TypeDef{CanonicalIndex: 1, SuperIndex: 0, Kind: KindStruct})
	require.Error(t, err)
}

func TestStructNewGetSet(t *testing.T) {
	cache := structSuperCache(t)
	heap := NewHeap()
	ref, err := heap.NewStruct(cache, 1, []uint64{7, 8})
	require.NoError(t, err)
	v, err := heap.StructGet(ref, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(8), v)
	require.NoError(t, heap.StructSet(ref, 0, 42))
	v, _ = heap.StructGet(ref, 0)
	require.Equal(t, uint64(42), v)
}

func TestArrayNewFillCopy(t *testing.T) {
	cache := NewTypeCache()
	require.NoError(t, cache.RegisterType(TypeDef{CanonicalIndex: 5, SuperIndex: CanonArray, Kind: KindArray, ElemType: FieldI32}))
	heap := NewHeap()
	ref, err := heap.NewArray(cache, 5, 4, 9)
	require.NoError(t, err)
	n, err := heap.ArrayLen(ref)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.NoError(t, heap.ArrayFill(ref, 1, 3, 2))
	v, _ := heap.ArrayGet(ref, 1)
	require.Equal(t, uint64(3), v)

	other, err := heap.NewArray(cache, 5, 4, 0)
	require.NoError(t, err)
	require.NoError(t, heap.ArrayCopy(other, 0, ref, 0, 4))
	v, _ = heap.ArrayGet(other, 1)
	require.Equal(t, uint64(3), v)
}

func TestRefTestAndCast(t *testing.T) {
	cache := structSuperCache(t)
	heap := NewHeap()
	ref, err := heap.NewStruct(cache, 1, []uint64{1, 2})
	require.NoError(t, err)

	require.True(t, RefTest(heap, cache, ref, CanonAny, false))
	require.True(t, RefTest(heap, cache, ref, CanonEq, false))
	require.True(t, RefTest(heap, cache, ref, 0, false))
	require.False(t, RefTest(heap, cache, ref, CanonArray, false))

	_, err = RefCast(heap, cache, ref, CanonArray, false)
	require.Error(t, err)

	same, err := RefCast(heap, cache, ref, 0, false)
	require.NoError(t, err)
	require.Equal(t, ref, same)
}

func TestRefTestNull(t *testing.T) {
	cache := NewTypeCache()
	heap := NewHeap()
	require.True(t, RefTest(heap, cache, api.RefNull, CanonAny, true))
	require.False(t, RefTest(heap, cache, api.RefNull, CanonAny, false))
}

func TestNewArrayFromData(t *testing.T) {
	cache := NewTypeCache()
	require.NoError(t, cache.RegisterType(TypeDef{CanonicalIndex: 2, SuperIndex: CanonArray, Kind: KindArray, ElemType: FieldI32}))
	heap := NewHeap()
	data := []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0}
	ref, err := NewArrayFromData(heap, cache, 2, data, 0, 3)
	require.NoError(t, err)
	v, _ := heap.ArrayGet(ref, 2)
	require.Equal(t, uint64(3), v)
}
