package vmctx

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// TestFrozenOffsets pins the VMContext field-offset contract spec.md §3
// defines. A field reorder here must fail this test before it can corrupt
// a real code generator's emitted loads/stores.
func TestFrozenOffsets(t *testing.T) {
	var vm VMContext
	require.Equal(t, uintptr(0), unsafe.Offsetof(vm.MemoryBase))
	require.Equal(t, uintptr(8), unsafe.Offsetof(vm.MemorySize))
	require.Equal(t, uintptr(16), unsafe.Offsetof(vm.FuncTable))
	require.Equal(t, uintptr(24), unsafe.Offsetof(vm.Table0Base))
	require.Equal(t, uintptr(32), unsafe.Offsetof(vm.Table0Elements))
	require.Equal(t, uintptr(40), unsafe.Offsetof(vm.Globals))
	require.Equal(t, uintptr(48), unsafe.Offsetof(vm.Tables))
	require.Equal(t, uintptr(56), unsafe.Offsetof(vm.TableCount))
	require.Equal(t, uintptr(60), unsafe.Offsetof(vm.FuncCount))
}
