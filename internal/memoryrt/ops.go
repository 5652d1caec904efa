package memoryrt

import (
	"github.com/gowasm/jitrt/internal/trap"
	"github.com/gowasm/jitrt/internal/vmctx"
)

// Fill implements memory.fill: writes value to length consecutive bytes
// starting at dst in memory memIdx. Bounds are checked with the strict
// inequality `size - offset < len` spec.md §4.7 prescribes for every bulk
// operation, not `offset + len > size`, to sidestep 32-bit overflow; all
// arithmetic here is int64.
func Fill(vm *vmctx.VMContext, memIdx int, dst int64, value byte, length int64) error {
	bytes, err := vm.MemoryAt(memIdx)
	if err != nil {
		return err
	}
	if length < 0 || dst < 0 || int64(len(bytes))-dst < length {
		return trap.New(trap.CodeOutOfBoundsMemoryAccess)
	}
	region := bytes[dst : dst+length]
	for i := range region {
		region[i] = value
	}
	return nil
}

// Copy implements memory.copy between dstIdx and srcIdx (which may be the
// same memory). Bounds are checked independently in both directions before
// any bytes move. Overlapping copies within the same memory use Go's
// built-in copy, which -- like memmove -- is correct under overlap; cross-
// memory copies never alias, so the same call serves both cases spec.md
// §4.6's "memmove when same memory, memcpy otherwise" distinguishes in C.
func Copy(vm *vmctx.VMContext, dstIdx int, srcIdx int, dst, src, length int64) error {
	dstBytes, err := vm.MemoryAt(dstIdx)
	if err != nil {
		return err
	}
	srcBytes, err := vm.MemoryAt(srcIdx)
	if err != nil {
		return err
	}
	if length < 0 || dst < 0 || src < 0 {
		return trap.New(trap.CodeOutOfBoundsMemoryAccess)
	}
	if int64(len(dstBytes))-dst < length || int64(len(srcBytes))-src < length {
		return trap.New(trap.CodeOutOfBoundsMemoryAccess)
	}
	copy(dstBytes[dst:dst+length], srcBytes[src:src+length])
	return nil
}
