package gcrt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gowasm/jitrt/internal/vmctx"
)

func TestSetHeapAndTypeCacheRoundTrip(t *testing.T) {
	vm := vmctx.New(0)
	h := NewHeap()
	c := NewTypeCache()
	SetHeap(vm, h)
	SetTypeCache(vm, c)
	require.Same(t, h, HeapOf(vm))
	require.Same(t, c, TypeCacheOf(vm))
	ClearCache(vm)
	require.Nil(t, HeapOf(vm))
	require.Nil(t, TypeCacheOf(vm))
}

func TestClearHeapLeavesTypeCacheIntact(t *testing.T) {
	vm := vmctx.New(0)
	c := NewTypeCache()
	SetHeap(vm, NewHeap())
	SetTypeCache(vm, c)
	ClearHeap(vm)
	require.Nil(t, HeapOf(vm))
	require.Same(t, c, TypeCacheOf(vm))
}

func TestHeapOfUnregisteredVMIsNil(t *testing.T) {
	vm := vmctx.New(0)
	require.Nil(t, HeapOf(vm))
}

func TestStaleGenerationIsNotVisible(t *testing.T) {
	vm := vmctx.New(0)
	SetHeap(vm, NewHeap())
	require.NotNil(t, HeapOf(vm))
	vm.Free()
	require.Nil(t, HeapOf(vm))
}

func TestSetCanonicalIndicesRejectsCycle(t *testing.T) {
	vm := vmctx.New(0)
	defs := []TypeDef{
		{CanonicalIndex: 0, SuperIndex: 1, Kind: KindStruct},
		{CanonicalIndex: 1, SuperIndex: 0, Kind: KindStruct},
	}
	err := SetCanonicalIndices(vm, defs)
	require.Error(t, err)
}
