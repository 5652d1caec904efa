//go:build windows

package memoryrt

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// reserveGuardedRegion reserves size bytes with MEM_RESERVE (no MEM_COMMIT,
// the Windows analog of a PROT_NONE mapping) -- committed pages are added
// per promoteGuardedPages as the guest grows its memory.
func reserveGuardedRegion(size int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return nil, fmt.Errorf("VirtualAlloc(MEM_RESERVE) failed: %w", err)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

// promoteGuardedPages commits and exposes read-write access to a subrange
// of a previously reserved region.
func promoteGuardedPages(pages []byte) error {
	if len(pages) == 0 {
		return nil
	}
	base := uintptr(unsafe.Pointer(&pages[0]))
	_, err := windows.VirtualAlloc(base, uintptr(len(pages)), windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return fmt.Errorf("VirtualAlloc(MEM_COMMIT) failed: %w", err)
	}
	return nil
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
