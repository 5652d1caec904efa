package vmctx

import (
	"fmt"
	"unsafe"
)

// WasmPageSize is the WebAssembly linear-memory page size, spec.md §4.5.
const WasmPageSize = 65536

// AbsoluteMaxPages is the hard ceiling on any memory's page count
// regardless of declared max, spec.md §4.5 ("the absolute ceiling is
// 65536 pages (4 GiB)").
const AbsoluteMaxPages = 65536

// SetMemories installs the backing arrays for every memory in multi-memory
// mode: bytesPerMemory[i] becomes memory i, index 0 included. It does not
// touch memory 0's MemoryBase/MemorySize fields, which SetMemory sets.
// maxPages[i] == 0 means no declared cap for that memory.
func (vm *VMContext) SetMemories(bytesPerMemory [][]byte, maxPages []uint32) error {
	if len(bytesPerMemory) != len(maxPages) {
		return fmt.Errorf("vmctx: SetMemories length mismatch: %d buffers, %d caps", len(bytesPerMemory), len(maxPages))
	}
	vm.memories = make([][]byte, len(bytesPerMemory))
	vm.memorySizes = make([]uint64, len(bytesPerMemory))
	vm.memoryMaxSizes = append([]uint32(nil), maxPages...)
	vm.memoryOwns = make([]bool, len(bytesPerMemory))
	for i, b := range bytesPerMemory {
		vm.memories[i] = b
		vm.memorySizes[i] = uint64(len(b))
		vm.memoryOwns[i] = true
	}
	return nil
}

// MemoryCount returns the number of indexed memories (memory 0 included),
// i.e. memory_count from spec.md §4.5.
func (vm *VMContext) MemoryCount() int {
	if len(vm.memories) == 0 {
		if vm.memory != nil || vm.MemoryBase != nil {
			return 1
		}
		return 0
	}
	return len(vm.memories)
}

// MemoryAt returns memory idx's current backing bytes.
func (vm *VMContext) MemoryAt(idx int) ([]byte, error) {
	if idx == 0 && len(vm.memories) == 0 {
		return vm.memory, nil
	}
	if err := vm.checkMemoryIndex(idx); err != nil {
		return nil, err
	}
	return vm.memories[idx], nil
}

// MemoryCapAt returns memory idx's module-declared page cap (0 = unbounded).
func (vm *VMContext) MemoryCapAt(idx int) (uint32, error) {
	if idx == 0 && len(vm.memories) == 0 {
		return vm.memoryCap, nil
	}
	if err := vm.checkMemoryIndex(idx); err != nil {
		return 0, err
	}
	return vm.memoryMaxSizes[idx], nil
}

// SetMemoryAt replaces memory idx's backing bytes after a grow, refreshing
// the fast-path MemoryBase/MemorySize fields when idx == 0.
func (vm *VMContext) SetMemoryAt(idx int, bytes []byte) error {
	if idx == 0 && len(vm.memories) == 0 {
		vm.SetMemory(bytes, vm.memoryCap)
		return nil
	}
	if err := vm.checkMemoryIndex(idx); err != nil {
		return err
	}
	vm.memories[idx] = bytes
	vm.memorySizes[idx] = uint64(len(bytes))
	if idx == 0 {
		vm.memory = bytes
		vm.MemorySize = uint64(len(bytes))
		if len(bytes) > 0 {
			vm.MemoryBase = unsafe.Pointer(&bytes[0])
		} else {
			vm.MemoryBase = nil
		}
	}
	return nil
}
