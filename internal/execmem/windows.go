//go:build windows

package execmem

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

func mapArena(size int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, fmt.Errorf("execmem: VirtualAlloc failed: %w", err)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

func writeAndFinalize(arena []byte, code []byte) error {
	copy(arena, code)
	var old uint32
	base := uintptr(unsafe.Pointer(&arena[0]))
	if err := windows.VirtualProtect(base, uintptr(len(arena)), windows.PAGE_EXECUTE_READ, &old); err != nil {
		return fmt.Errorf("VirtualProtect(PAGE_EXECUTE_READ): %w", err)
	}
	return nil
}

func unmapArena(arena []byte) error {
	if len(arena) == 0 {
		return nil
	}
	base := uintptr(unsafe.Pointer(&arena[0]))
	return windows.VirtualFree(base, 0, windows.MEM_RELEASE)
}

func pageSize() int {
	var si windows.SystemInfo
	windows.GetSystemInfo(&si)
	return int(si.PageSize)
}
