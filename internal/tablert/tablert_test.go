package tablert

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/gowasm/jitrt/api"
	"github.com/gowasm/jitrt/internal/vmctx"
)

func TestGrowFillCopy(t *testing.T) {
	vm := vmctx.New(2)
	stub := new(int)
	require.NoError(t, vm.SetFunc(0, unsafe.Pointer(stub)))
	vm.SetFuncTypeIndices([]int64{7, 0})
	require.NoError(t, vm.AllocIndirectTable(2))

	prev, err := Grow(vm, 0, 3, api.RefNull)
	require.NoError(t, err)
	require.Equal(t, int64(2), prev)

	funcRef := api.EncodeFuncPtr(uint64(uintptr(unsafe.Pointer(stub))))
	require.NoError(t, Fill(vm, 0, 2, funcRef, 2))
	entries, err := vm.TableEntries(0)
	require.NoError(t, err)
	require.Equal(t, int64(7), entries[2].TypeIdx)
	require.Equal(t, int64(7), entries[3].TypeIdx)

	require.NoError(t, Copy(vm, 0, 0, 0, 2, 2))
	entries, err = vm.TableEntries(0)
	require.NoError(t, err)
	require.Equal(t, funcRef, entries[0].Ref)
}

func TestGrowBeyondMaxReturnsNegativeOne(t *testing.T) {
	vm := vmctx.New(0)
	require.NoError(t, vm.AllocIndirectTable(1))
	require.NoError(t, vm.SetTableEntries(0, make([]vmctx.TableEntry, 1), 2))
	prev, err := Grow(vm, 0, 5, api.RefNull)
	require.NoError(t, err)
	require.Equal(t, int64(-1), prev)
}

func TestFillOutOfBoundsTraps(t *testing.T) {
	vm := vmctx.New(0)
	require.NoError(t, vm.AllocIndirectTable(2))
	require.Error(t, Fill(vm, 0, 1, api.RefNull, 5))
}
