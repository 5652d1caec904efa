package wasip1

import (
	"net"
	"os"

	"github.com/gowasm/jitrt/internal/vmctx"
)

// connFile extracts the underlying *os.File from an accepted connection,
// covering the concrete net.Conn kinds FileListener can hand back.
func connFile(conn net.Conn) (*os.File, error) {
	type filer interface{ File() (*os.File, error) }
	if fc, ok := conn.(filer); ok {
		return fc.File()
	}
	return nil, net.ErrClosed
}

// isStdio rejects operations WASI sockets never perform on fd 0/1/2,
// per spec.md §4.9's "socket ops reject stdio fds with EBADF".
func isStdio(fd uint32) bool { return fd < 3 }

// SockAccept accepts a new connection on the listening socket fd and
// installs it as a new WASI fd.
func SockAccept(vm *vmctx.VMContext, fd uint32, flags uint32, newFDPtr uint32) Errno {
	if isStdio(fd) {
		return ErrnoBadf
	}
	e, ok := vm.FDs().Get(fd)
	if !ok {
		return ErrnoBadf
	}
	ln, err := net.FileListener(e.File)
	if err != nil {
		return ErrnoNotsock
	}
	conn, err := ln.Accept()
	if err != nil {
		return ToErrno(err)
	}
	f, err := connFile(conn)
	if err != nil {
		return ErrnoIo
	}
	newFD := vm.FDs().Open(f)
	return writeU32(vm.Memory(), newFDPtr, newFD)
}

// SockRecv reads into the guest iovec list from the connection fd.
func SockRecv(vm *vmctx.VMContext, fd uint32, riDataPtr, riDataLen uint32, riFlags uint32, roDataLenPtr, roFlagsPtr uint32) Errno {
	if isStdio(fd) {
		return ErrnoBadf
	}
	e, ok := vm.FDs().Get(fd)
	if !ok {
		return ErrnoBadf
	}
	mem := vm.Memory()
	iovs, errno := readIovecs(mem, riDataPtr, riDataLen)
	if errno != ErrnoSuccess {
		return errno
	}
	var total uint32
	for _, iov := range iovs {
		buf, errno := guestSlice(mem, iov.ptr, iov.len)
		if errno != ErrnoSuccess {
			return errno
		}
		n, err := e.File.Read(buf)
		total += uint32(n)
		if err != nil {
			break
		}
		if uint32(n) < iov.len {
			break
		}
	}
	if errno := writeU32(mem, roDataLenPtr, total); errno != ErrnoSuccess {
		return errno
	}
	return writeU32(mem, roFlagsPtr, 0)
}

// SockSend writes the guest iovec list to the connection fd.
func SockSend(vm *vmctx.VMContext, fd uint32, siDataPtr, siDataLen uint32, siFlags uint32, soDataLenPtr uint32) Errno {
	if isStdio(fd) {
		return ErrnoBadf
	}
	e, ok := vm.FDs().Get(fd)
	if !ok {
		return ErrnoBadf
	}
	mem := vm.Memory()
	iovs, errno := readIovecs(mem, siDataPtr, siDataLen)
	if errno != ErrnoSuccess {
		return errno
	}
	var total uint32
	for _, iov := range iovs {
		buf, errno := guestSlice(mem, iov.ptr, iov.len)
		if errno != ErrnoSuccess {
			return errno
		}
		n, err := e.File.Write(buf)
		total += uint32(n)
		if err != nil {
			return ToErrno(err)
		}
	}
	return writeU32(mem, soDataLenPtr, total)
}

// SockShutdown closes fd and frees its table slot. how is not consulted:
// there is no half shutdown of only the send or only the receive side.
func SockShutdown(vm *vmctx.VMContext, fd uint32, how uint32) Errno {
	if isStdio(fd) {
		return ErrnoBadf
	}
	if !vm.FDs().Close(fd) {
		return ErrnoBadf
	}
	return ErrnoSuccess
}
