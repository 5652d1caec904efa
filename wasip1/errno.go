// Package wasip1 binds the WASI Preview 1 snapshot-01 syscall surface
// directly to *vmctx.VMContext, mirroring the teacher's
// imports/wasi_snapshot_preview1 package shape (one file per syscall
// family, Errno named constants ported from its errno.go) but without a
// bytecode-decoding module system in between: generated code calls these
// functions with (vmctx, args...) per SPEC_FULL.md §6.9.
package wasip1

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
)

// Errno is a WASI snapshot-01 error code. ErrnoSuccess is not an error.
type Errno = uint32

// Ported wholesale from the teacher's errno.go; spec.md §4.9 only requires
// the subset it documents (success, EACCES, EBADF, EEXIST, EINVAL, EIO,
// EISDIR, ENOENT, ENOSYS, ENOTDIR, ENOTEMPTY, ESPIPE) but the extra names
// cost nothing and keep this table a drop-in match for the teacher's.
const (
	ErrnoSuccess Errno = iota
	Errno2big
	ErrnoAcces
	ErrnoAddrinuse
	ErrnoAddrnotavail
	ErrnoAfnosupport
	ErrnoAgain
	ErrnoAlready
	ErrnoBadf
	ErrnoBadmsg
	ErrnoBusy
	ErrnoCanceled
	ErrnoChild
	ErrnoConnaborted
	ErrnoConnrefused
	ErrnoConnreset
	ErrnoDeadlk
	ErrnoDestaddrreq
	ErrnoDom
	ErrnoDquot
	ErrnoExist
	ErrnoFault
	ErrnoFbig
	ErrnoHostunreach
	ErrnoIdrm
	ErrnoIlseq
	ErrnoInprogress
	ErrnoIntr
	ErrnoInval
	ErrnoIo
	ErrnoIsconn
	ErrnoIsdir
	ErrnoLoop
	ErrnoMfile
	ErrnoMlink
	ErrnoMsgsize
	ErrnoMultihop
	ErrnoNametoolong
	ErrnoNetdown
	ErrnoNetreset
	ErrnoNetunreach
	ErrnoNfile
	ErrnoNobufs
	ErrnoNodev
	ErrnoNoent
	ErrnoNoexec
	ErrnoNolck
	ErrnoNolink
	ErrnoNomem
	ErrnoNomsg
	ErrnoNoprotoopt
	ErrnoNospc
	ErrnoNosys
	ErrnoNotconn
	ErrnoNotdir
	ErrnoNotempty
	ErrnoNotrecoverable
	ErrnoNotsock
	ErrnoNotsup
	ErrnoNotty
	ErrnoNxio
	ErrnoOverflow
	ErrnoOwnerdead
	ErrnoPerm
	ErrnoPipe
	ErrnoProto
	ErrnoProtonosupport
	ErrnoPrototype
	ErrnoRange
	ErrnoRofs
	ErrnoSpipe
	ErrnoSrch
	ErrnoStale
	ErrnoTimedout
	ErrnoTxtbsy
	ErrnoXdev
	ErrnoNotcapable
)

// ToErrno maps a host error into its WASI errno, per spec.md §4.9's table
// (0 ok, 2 EACCES, 8 EBADF, 20 EEXIST, 28 EINVAL, 29 EIO, 31 EISDIR, 44
// ENOENT, 52 ENOSYS, 54 ENOTDIR, 55 ENOTEMPTY, 70 ESPIPE) extended to the
// rest of syscall.Errno the same way the teacher's does.
func ToErrno(err error) Errno {
	if err == nil {
		return ErrnoSuccess
	}
	switch {
	case errors.Is(err, os.ErrPermission):
		return ErrnoAcces
	case errors.Is(err, os.ErrNotExist):
		return ErrnoNoent
	case errors.Is(err, os.ErrExist):
		return ErrnoExist
	case errors.Is(err, os.ErrClosed):
		return ErrnoBadf
	case errors.Is(err, fs.ErrInvalid):
		return ErrnoInval
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES:
			return ErrnoAcces
		case syscall.EBADF:
			return ErrnoBadf
		case syscall.EEXIST:
			return ErrnoExist
		case syscall.EINVAL:
			return ErrnoInval
		case syscall.EIO:
			return ErrnoIo
		case syscall.EISDIR:
			return ErrnoIsdir
		case syscall.ENOENT:
			return ErrnoNoent
		case syscall.ENOSYS:
			return ErrnoNosys
		case syscall.ENOTDIR:
			return ErrnoNotdir
		case syscall.ENOTEMPTY:
			return ErrnoNotempty
		case syscall.ESPIPE:
			return ErrnoSpipe
		case syscall.ENOTSOCK:
			return ErrnoNotsock
		case syscall.EPERM:
			return ErrnoPerm
		case syscall.ENAMETOOLONG:
			return ErrnoNametoolong
		case syscall.ELOOP:
			return ErrnoLoop
		case syscall.EMFILE:
			return ErrnoMfile
		case syscall.ENFILE:
			return ErrnoNfile
		case syscall.EROFS:
			return ErrnoRofs
		case syscall.EXDEV:
			return ErrnoXdev
		}
	}
	return ErrnoIo
}
