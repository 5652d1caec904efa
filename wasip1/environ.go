package wasip1

import "github.com/gowasm/jitrt/internal/vmctx"

// EnvironSizesGet returns the variable count and total buffer size
// environ_get will write, mirroring ArgsSizesGet's shape.
func EnvironSizesGet(vm *vmctx.VMContext, countPtr, bufSizePtr uint32) Errno {
	env := vm.WASIEnviron()
	size := 0
	for _, e := range env {
		size += len(e) + 1
	}
	mem := vm.Memory()
	if errno := writeU32(mem, countPtr, uint32(len(env))); errno != ErrnoSuccess {
		return errno
	}
	return writeU32(mem, bufSizePtr, uint32(size))
}

// EnvironGet writes the "KEY=VALUE" environ vector, NUL-terminated.
func EnvironGet(vm *vmctx.VMContext, environPtr, environBufPtr uint32) Errno {
	return writeStringVec(vm, vm.WASIEnviron(), environPtr, environBufPtr)
}
