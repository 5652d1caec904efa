package segmentrt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gowasm/jitrt/api"
	"github.com/gowasm/jitrt/internal/vmctx"
)

func TestMemoryInitAndDataDrop(t *testing.T) {
	vm := vmctx.New(0)
	vm.SetMemory(make([]byte, vmctx.WasmPageSize), 0)
	vm.SetDataSegments([][]byte{{1, 2, 3, 4}})

	require.NoError(t, MemoryInit(vm, 0, 0, 10, 1, 3))
	mem, _ := vm.MemoryAt(0)
	require.Equal(t, []byte{2, 3, 4}, mem[10:13])

	DataDrop(vm, 0)
	require.Error(t, MemoryInit(vm, 0, 0, 0, 0, 1))
	require.NoError(t, MemoryInit(vm, 0, 0, 0, 0, 0))
}

func TestMemoryInitOutOfBoundsSegment(t *testing.T) {
	vm := vmctx.New(0)
	vm.SetMemory(make([]byte, vmctx.WasmPageSize), 0)
	vm.SetDataSegments([][]byte{{1, 2}})
	require.Error(t, MemoryInit(vm, 0, 0, 0, 0, 5))
}

func TestTableInitAndElemDrop(t *testing.T) {
	vm := vmctx.New(0)
	require.NoError(t, vm.AllocIndirectTable(4))
	seg := []vmctx.ElemEntry{vmctx.NewElemEntry(uint64(api.EncodeI31(5)), -3)}
	vm.SetElemSegments([][]vmctx.ElemEntry{seg})

	require.NoError(t, TableInit(vm, 0, 0, 1, 0, 1))
	entries, err := vm.TableEntries(0)
	require.NoError(t, err)
	require.Equal(t, int64(-3), entries[1].TypeIdx)

	ElemDrop(vm, 0)
	require.Error(t, TableInit(vm, 0, 0, 0, 0, 1))
}
