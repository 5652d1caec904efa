//go:build darwin

package execmem

/*
#include <libkern/OSCacheControl.h>
*/
import "C"
import "unsafe"

// flushICache invalidates the instruction cache via libkern's
// sys_icache_invalidate, exactly as the C source does; Go's "clear cache"
// builtin doesn't exist outside cgo on Apple platforms.
func flushICache(code []byte) {
	if len(code) == 0 {
		return
	}
	C.sys_icache_invalidate(unsafe.Pointer(&code[0]), C.size_t(len(code)))
}
