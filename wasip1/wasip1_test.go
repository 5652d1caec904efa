package wasip1

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gowasm/jitrt/internal/vmctx"
)

func newWasiVM(t *testing.T) *vmctx.VMContext {
	vm := vmctx.New(0)
	vm.SetMemory(make([]byte, 65536), 1)
	require.NoError(t, vm.InitWASIFds(true))
	return vm
}

func TestArgsSizesAndGet(t *testing.T) {
	vm := newWasiVM(t)
	vm.SetWASIArgs([]string{"prog", "-x"})

	require.Equal(t, ErrnoSuccess, ArgsSizesGet(vm, 0, 4))
	mem := vm.Memory()
	argc, _ := readU32(mem, 0)
	bufSize, _ := readU32(mem, 4)
	require.Equal(t, uint32(2), argc)
	require.Equal(t, uint32(len("prog\x00-x\x00")), bufSize)

	require.Equal(t, ErrnoSuccess, ArgsGet(vm, 100, 200))
	p0, _ := readU32(mem, 100)
	require.Equal(t, uint32(200), p0)
	require.Equal(t, "prog", string(mem[200:204]))
}

func TestEnvironRoundTrip(t *testing.T) {
	vm := newWasiVM(t)
	vm.SetWASIEnviron([]string{"FOO=bar"})
	require.Equal(t, ErrnoSuccess, EnvironSizesGet(vm, 0, 4))
	mem := vm.Memory()
	count, _ := readU32(mem, 0)
	require.Equal(t, uint32(1), count)
	require.Equal(t, ErrnoSuccess, EnvironGet(vm, 100, 200))
	require.Equal(t, "FOO=bar", string(mem[200:207]))
}

func TestClockTimeGetRealtime(t *testing.T) {
	vm := newWasiVM(t)
	require.Equal(t, ErrnoSuccess, ClockTimeGet(vm, ClockRealtime, 0, 0))
	ns := make([]byte, 8)
	copy(ns, vm.Memory()[0:8])
	require.NotZero(t, ns)
}

func TestClockTimeGetInvalidClock(t *testing.T) {
	vm := newWasiVM(t)
	require.Equal(t, Errno(ErrnoInval), ClockTimeGet(vm, 99, 0, 0))
}

func TestRandomGetFillsBuffer(t *testing.T) {
	vm := newWasiVM(t)
	require.Equal(t, ErrnoSuccess, RandomGet(vm, 0, 16))
}

func TestFDWriteToStdout(t *testing.T) {
	vm := newWasiVM(t)
	mem := vm.Memory()
	copy(mem[100:], "hi")
	writeU32(mem, 0, 100) // iovec.ptr
	writeU32(mem, 4, 2)   // iovec.len
	require.Equal(t, ErrnoSuccess, FDWrite(vm, 1, 0, 1, 200))
	n, _ := readU32(mem, 200)
	require.Equal(t, uint32(2), n)
}

func TestFDWriteBadFDReturnsEbadf(t *testing.T) {
	vm := newWasiVM(t)
	require.Equal(t, Errno(ErrnoBadf), FDWrite(vm, 99, 0, 0, 0))
}

func TestPathOpenWriteReadAndClose(t *testing.T) {
	vm := newWasiVM(t)
	dir := t.TempDir()
	preopenFD, err := vm.AddPreopen(dir, "/")
	require.NoError(t, err)

	mem := vm.Memory()
	copy(mem[0:], "hello.txt")
	writeU32(mem, 100, 0) // pathPtr
	errno := PathOpen(vm, preopenFD, 0, 0, 9, OflagsCreat, RightsFDWrite|RightsFDRead, 0, 0, 300)
	require.Equal(t, ErrnoSuccess, errno)
	fd, _ := readU32(mem, 300)
	require.True(t, fd >= 3)

	copy(mem[500:], "payload")
	writeU32(mem, 600, 500)
	writeU32(mem, 604, 7)
	require.Equal(t, ErrnoSuccess, FDWrite(vm, fd, 600, 1, 700))

	require.Equal(t, ErrnoSuccess, FDClose(vm, fd))

	data, err := os.ReadFile(filepath.Join(dir, "hello.txt"))
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))
}

func TestPathUnlinkFile(t *testing.T) {
	vm := newWasiVM(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))
	preopenFD, err := vm.AddPreopen(dir, "/")
	require.NoError(t, err)

	mem := vm.Memory()
	copy(mem[0:], "a.txt")
	require.Equal(t, ErrnoSuccess, PathUnlinkFile(vm, preopenFD, 0, 5))
	_, statErr := os.Stat(filepath.Join(dir, "a.txt"))
	require.True(t, os.IsNotExist(statErr))
}

func TestPathOpenRejectsNonPreopenDirfd(t *testing.T) {
	vm := newWasiVM(t)
	dir := t.TempDir()
	preopenFD, err := vm.AddPreopen(dir, "/")
	require.NoError(t, err)

	mem := vm.Memory()
	copy(mem[0:], "escape.txt")
	writeU32(mem, 100, 0)

	// stdio fds are never preopens.
	errno := PathOpen(vm, 1, 0, 0, 10, OflagsCreat, RightsFDWrite|RightsFDRead, 0, 0, 300)
	require.Equal(t, Errno(ErrnoBadf), errno)

	// A regular file fd opened through a legitimate preopen is still not
	// itself a preopen, so it must not be usable as a path_* dirfd either --
	// otherwise a guest could pass an absolute path and escape the preopen's
	// HostPath root, since a non-preopen entry's HostPath is empty and
	// filepath.Join("", "/etc/passwd") resolves to "/etc/passwd" verbatim.
	errno = PathOpen(vm, preopenFD, 0, 0, 10, OflagsCreat, RightsFDWrite|RightsFDRead, 0, 0, 300)
	require.Equal(t, ErrnoSuccess, errno)
	regularFD, _ := readU32(mem, 300)
	require.True(t, regularFD >= 3)

	copy(mem[400:], "payload.txt")
	writeU32(mem, 500, 400)
	errno = PathOpen(vm, regularFD, 0, 500, 11, OflagsCreat, RightsFDWrite|RightsFDRead, 0, 0, 600)
	require.Equal(t, Errno(ErrnoBadf), errno)
}

func TestFDPrestatGetAndDirName(t *testing.T) {
	vm := newWasiVM(t)
	dir := t.TempDir()
	preopenFD, err := vm.AddPreopen(dir, "/sandbox")
	require.NoError(t, err)

	require.Equal(t, ErrnoSuccess, FDPrestatGet(vm, preopenFD, 0))
	mem := vm.Memory()
	nameLen, _ := readU32(mem, 4)
	require.Equal(t, uint32(len("/sandbox")), nameLen)

	require.Equal(t, ErrnoSuccess, FDPrestatDirName(vm, preopenFD, 100, nameLen))
	require.Equal(t, "/sandbox", string(mem[100:100+nameLen]))
}

func TestSockOpsRejectStdio(t *testing.T) {
	vm := newWasiVM(t)
	require.Equal(t, Errno(ErrnoBadf), SockShutdown(vm, 0, 0))
	require.Equal(t, Errno(ErrnoBadf), SockAccept(vm, 1, 0, 0))
}

func TestProcExitPanicsWithCode(t *testing.T) {
	vm := newWasiVM(t)
	defer func() {
		r := recover()
		exit, ok := r.(ExitError)
		require.True(t, ok)
		require.Equal(t, uint32(7), exit.Code)
	}()
	ProcExit(vm, 7)
}

func TestPollOneoffSingleClock(t *testing.T) {
	vm := newWasiVM(t)
	mem := vm.Memory()
	// one subscription: userdata=42, tag=clock(0), timeout=1ns at offset 24
	writeU64(mem, 0, 42)
	mem[8] = eventtypeClock
	writeU64(mem, 24, 1)
	require.Equal(t, ErrnoSuccess, PollOneoff(vm, 0, 1000, 1, 2000))
	n, _ := readU32(mem, 2000)
	require.Equal(t, uint32(1), n)
}
