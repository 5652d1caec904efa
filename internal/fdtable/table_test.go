package fdtable

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWiresStdio(t *testing.T) {
	tbl, err := New(false)
	require.NoError(t, err)
	for i := uint32(0); i < 3; i++ {
		_, ok := tbl.Get(i)
		require.True(t, ok)
	}
	tbl.CloseAll()
}

func TestAddPreopenAndOpenAfter(t *testing.T) {
	tbl, err := New(true)
	require.NoError(t, err)
	fd, err := tbl.AddPreopen(os.TempDir(), "/tmp")
	require.NoError(t, err)
	require.Equal(t, uint32(3), fd)

	f, err := os.Open(os.TempDir())
	require.NoError(t, err)
	appFD := tbl.Open(f)
	require.GreaterOrEqual(t, appFD, uint32(4))

	preopens := tbl.Preopens()
	require.Len(t, preopens, 1)
	require.Equal(t, "/tmp", preopens[0].GuestPath)

	tbl.CloseAll()
}

func TestCloseFreesSmallestIndex(t *testing.T) {
	tbl, err := New(true)
	require.NoError(t, err)
	f1, _ := os.Open(os.TempDir())
	f2, _ := os.Open(os.TempDir())
	fd1 := tbl.Open(f1)
	fd2 := tbl.Open(f2)
	require.True(t, tbl.Close(fd1))

	f3, _ := os.Open(os.TempDir())
	fd3 := tbl.Open(f3)
	require.Equal(t, fd1, fd3)
	require.NotEqual(t, fd2, fd3)
	tbl.CloseAll()
}

func TestRenumber(t *testing.T) {
	tbl, err := New(true)
	require.NoError(t, err)
	f, _ := os.Open(os.TempDir())
	fd := tbl.Open(f)
	require.True(t, tbl.Renumber(fd, 50))
	_, ok := tbl.Get(fd)
	require.False(t, ok)
	_, ok = tbl.Get(50)
	require.True(t, ok)
	tbl.CloseAll()
}
