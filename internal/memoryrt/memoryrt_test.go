package memoryrt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gowasm/jitrt/internal/vmctx"
)

func newMemVM(t *testing.T, initialPages int, capPages uint32) *vmctx.VMContext {
	vm := vmctx.New(0)
	vm.SetMemory(make([]byte, int64(initialPages)*vmctx.WasmPageSize), capPages)
	return vm
}

func TestGrowWithinCap(t *testing.T) {
	vm := newMemVM(t, 1, 3)
	prev, err := Grow(vm, 0, 2, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), prev)
	size, err := Size(vm, 0)
	require.NoError(t, err)
	require.Equal(t, int64(3), size)
}

func TestGrowBeyondCapReturnsNegativeOne(t *testing.T) {
	vm := newMemVM(t, 1, 2)
	prev, err := Grow(vm, 0, 5, 0)
	require.NoError(t, err)
	require.Equal(t, int64(-1), prev)
}

func TestGrowZeroFillsTail(t *testing.T) {
	vm := newMemVM(t, 1, 4)
	mem, _ := vm.MemoryAt(0)
	mem[0] = 0xAB
	_, err := Grow(vm, 0, 1, 0)
	require.NoError(t, err)
	grown, _ := vm.MemoryAt(0)
	require.Equal(t, byte(0xAB), grown[0])
	for _, b := range grown[vmctx.WasmPageSize:] {
		require.Equal(t, byte(0), b)
	}
}

func TestFillBoundsChecked(t *testing.T) {
	vm := newMemVM(t, 1, 1)
	require.NoError(t, Fill(vm, 0, 0, 0x42, vmctx.WasmPageSize))
	require.Error(t, Fill(vm, 0, 1, 0x42, vmctx.WasmPageSize))
}

func TestFillZeroLengthAtExactBoundaryIsLegal(t *testing.T) {
	vm := newMemVM(t, 1, 1)
	require.NoError(t, Fill(vm, 0, vmctx.WasmPageSize, 0, 0))
}

func TestCopyWithinMemory(t *testing.T) {
	vm := newMemVM(t, 1, 1)
	mem, _ := vm.MemoryAt(0)
	mem[0] = 1
	mem[1] = 2
	mem[2] = 3
	require.NoError(t, Copy(vm, 0, 0, 10, 0, 3))
	mem, _ = vm.MemoryAt(0)
	require.Equal(t, []byte{1, 2, 3}, mem[10:13])
}

func TestCopyOutOfBoundsTraps(t *testing.T) {
	vm := newMemVM(t, 1, 1)
	err := Copy(vm, 0, 0, 0, 0, vmctx.WasmPageSize+1)
	require.Error(t, err)
}
