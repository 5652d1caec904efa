//go:build (darwin && !arm64) || linux || freebsd || netbsd || openbsd

package execmem

import (
	"fmt"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/sys/unix"
)

// mapArena implements the W^X discipline: pages start read-write, the
// compiled bytes are copied in by Install, then the whole arena flips to
// read-execute. This is the common path for every POSIX target except
// Apple Silicon, which darwin_arm64.go handles with MAP_JIT
// instead (W^X is mandatory there and mprotect(PROT_EXEC) after the fact
// is rejected by the kernel).
//
// Grounded on github.com/edsrzf/mmap-go, the library go-interpreter/wagon
// uses for the identical purpose (mapping anonymous pages to hold JIT'd
// code) in the retrieval pack.
func mapArena(size int) ([]byte, error) {
	m, err := mmap.MapRegion(nil, size, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, fmt.Errorf("execmem: mmap failed: %w", err)
	}
	return m, nil
}

func writeAndFinalize(arena []byte, code []byte) error {
	copy(arena, code)
	if err := unix.Mprotect(arena, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		return fmt.Errorf("mprotect(PROT_READ|PROT_EXEC): %w", err)
	}
	return nil
}

func unmapArena(arena []byte) error {
	m := mmap.MMap(arena)
	if err := m.Unmap(); err != nil {
		return fmt.Errorf("execmem: munmap failed: %w", err)
	}
	return nil
}

func pageSize() int {
	return unix.Getpagesize()
}
