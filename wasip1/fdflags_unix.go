//go:build !windows

package wasip1

import "golang.org/x/sys/unix"

// fdflagsOf reads back the append/nonblock status bits golang.org/x/sys/unix
// exposes via fcntl(F_GETFL), the same mechanism setFdflags uses to apply
// them.
func fdflagsOf(e interface{ Fd() uintptr }) uint32 {
	flags, err := unix.FcntlInt(e.Fd(), unix.F_GETFL, 0)
	if err != nil {
		return 0
	}
	var out uint32
	if flags&unix.O_APPEND != 0 {
		out |= FdflagsAppend
	}
	if flags&unix.O_NONBLOCK != 0 {
		out |= FdflagsNonblock
	}
	if flags&unix.O_SYNC != 0 {
		out |= FdflagsSync
	}
	return out
}

// setFdflags applies WASI fdflags to the host fd via fcntl(F_SETFL).
func setFdflags(e interface{ Fd() uintptr }, flags uint32) Errno {
	cur, err := unix.FcntlInt(e.Fd(), unix.F_GETFL, 0)
	if err != nil {
		return ToErrno(err)
	}
	cur &^= unix.O_APPEND | unix.O_NONBLOCK | unix.O_SYNC
	if flags&FdflagsAppend != 0 {
		cur |= unix.O_APPEND
	}
	if flags&FdflagsNonblock != 0 {
		cur |= unix.O_NONBLOCK
	}
	if flags&(FdflagsSync|FdflagsDsync|FdflagsRsync) != 0 {
		cur |= unix.O_SYNC
	}
	if _, err := unix.FcntlInt(e.Fd(), unix.F_SETFL, cur); err != nil {
		return ToErrno(err)
	}
	return ErrnoSuccess
}
