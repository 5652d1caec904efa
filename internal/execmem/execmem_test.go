package execmem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocInstallFree(t *testing.T) {
	mgr := New()
	arena, err := mgr.Alloc(16)
	require.NoError(t, err)
	require.Equal(t, 1, mgr.Len())

	// RET (0xD65F03C0), a valid single-instruction AArch64 function body,
	// used here only to exercise Install's copy-then-finalize path.
	code := []byte{0xC0, 0x03, 0x5F, 0xD6}
	require.NoError(t, mgr.Install(arena, code))

	require.NoError(t, mgr.Free(arena))
	require.Equal(t, 0, mgr.Len())
}

func TestFreeUnknownArenaErrors(t *testing.T) {
	mgr := New()
	require.Error(t, mgr.Free([]byte{1, 2, 3}))
}

func TestInstallCodeLargerThanArenaErrors(t *testing.T) {
	mgr := New()
	arena, err := mgr.Alloc(4)
	require.NoError(t, err)
	big := make([]byte, 1<<20)
	require.Error(t, mgr.Install(arena, big))
}

func TestAllocRejectsNonPositiveSize(t *testing.T) {
	mgr := New()
	_, err := mgr.Alloc(0)
	require.Error(t, err)
}
