//go:build linux && arm64

package execmem

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// armNRCacheFlush is Linux's arm64 cacheflush(2) syscall number, reserved
// specifically so user space can invalidate the instruction cache for a
// freshly written range without a custom signal/trap handler -- the exact
// job __builtin___clear_cache does on non-Apple arm64 targets in the C
// source. Using the raw syscall number keeps this cgo-free, unlike the
// Apple path in darwin_arm64.go which has no syscall equivalent.
const armNRCacheFlush = 0xF0002

func flushICache(code []byte) {
	if len(code) == 0 {
		return
	}
	start := uintptr(unsafe.Pointer(&code[0]))
	end := start + uintptr(len(code))
	_, _, _ = unix.Syscall(armNRCacheFlush, start, end, 0)
}
