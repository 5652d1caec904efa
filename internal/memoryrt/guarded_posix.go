//go:build !windows

package memoryrt

import (
	"fmt"
	"unsafe"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/sys/unix"
)

// reserveGuardedRegion mmaps size bytes PROT_NONE, grounded on the same
// github.com/edsrzf/mmap-go path internal/execmem uses for executable
// arenas.
func reserveGuardedRegion(size int) ([]byte, error) {
	m, err := mmap.MapRegion(nil, size, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap reservation failed: %w", err)
	}
	if err := unix.Mprotect(m, unix.PROT_NONE); err != nil {
		return nil, fmt.Errorf("mprotect(PROT_NONE) failed: %w", err)
	}
	return m, nil
}

// promoteGuardedPages makes a subrange of an existing reservation
// accessible read-write, without moving or re-reserving anything else.
func promoteGuardedPages(pages []byte) error {
	if len(pages) == 0 {
		return nil
	}
	return unix.Mprotect(pages, unix.PROT_READ|unix.PROT_WRITE)
}

func addrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

func sliceFromReservation(base uintptr, size uintptr) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(base)), size)
}
