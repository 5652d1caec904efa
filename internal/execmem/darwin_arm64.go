//go:build darwin && arm64

package execmem

/*
#include <sys/mman.h>
#include <pthread.h>
#include <libkern/OSCacheControl.h>

static void *jit_map(size_t size) {
	return mmap(NULL, size, PROT_READ | PROT_WRITE | PROT_EXEC,
		MAP_JIT | MAP_ANON | MAP_PRIVATE, -1, 0);
}

static void jit_write_enter(void) { pthread_jit_write_protect_np(0); }
static void jit_write_exit(void)  { pthread_jit_write_protect_np(1); }
*/
import "C"

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mapArena on Apple Silicon uses MAP_JIT, mandatory per spec.md §4.1: the
// kernel never allows a later mprotect(PROT_EXEC) on a page that wasn't
// mapped MAP_JIT in the first place, so the POSIX W^X path in posix.go
// cannot be reused here. There is no pure-Go binding for MAP_JIT or
// pthread_jit_write_protect_np, so this is the one justified cgo boundary
// in the module (see DESIGN.md).
func mapArena(size int) ([]byte, error) {
	ptr, err := C.jit_map(C.size_t(size))
	if ptr == nil {
		return nil, fmt.Errorf("execmem: mmap(MAP_JIT) failed: %w", err)
	}
	return unsafe.Slice((*byte)(ptr), size), nil
}

// writeAndFinalize brackets the copy with the per-thread W^X toggle
// pthread_jit_write_protect_np requires: writable while copying, executable
// once the toggle flips back. Unlike the POSIX path, permissions never
// change via mprotect after the initial MAP_JIT mapping.
func writeAndFinalize(arena []byte, code []byte) error {
	C.jit_write_enter()
	copy(arena, code)
	C.jit_write_exit()
	return nil
}

func unmapArena(arena []byte) error {
	if len(arena) == 0 {
		return nil
	}
	return unix.Munmap(arena)
}

func pageSize() int {
	return unix.Getpagesize()
}
