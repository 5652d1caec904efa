package execmem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExportedLibcallsAllNonNil(t *testing.T) {
	calls := ExportedLibcalls()
	require.NotEmpty(t, calls)
	for name, ptr := range calls {
		require.NotNil(t, ptr, "libcall %q has a nil address", name)
	}
}

func TestExportedLibcallsCoversEveryFamily(t *testing.T) {
	calls := ExportedLibcalls()
	for _, name := range []string{
		"memory.size", "memory.grow", "memory.fill", "memory.copy",
		"table.grow", "table.fill", "table.copy",
		"memory.init", "data.drop", "table.init", "elem.drop",
		"struct.new", "struct.get", "array.new", "array.get",
		"ref.test", "ref.cast",
	} {
		_, ok := calls[name]
		require.True(t, ok, "missing libcall %q", name)
	}
}
