package wasip1

import "github.com/gowasm/jitrt/internal/vmctx"

// ArgsSizesGet returns the argument count and the total size, in bytes,
// of the NUL-terminated argv buffer args_get will write.
func ArgsSizesGet(vm *vmctx.VMContext, argcPtr, argvBufSizePtr uint32) Errno {
	args := vm.WASIArgs()
	size := 0
	for _, a := range args {
		size += len(a) + 1
	}
	mem := vm.Memory()
	if errno := writeU32(mem, argcPtr, uint32(len(args))); errno != ErrnoSuccess {
		return errno
	}
	return writeU32(mem, argvBufSizePtr, uint32(size))
}

// ArgsGet writes argc pointers into argvPtr and the NUL-terminated argv
// strings into argvBufPtr, matching the sizes ArgsSizesGet reported.
func ArgsGet(vm *vmctx.VMContext, argvPtr, argvBufPtr uint32) Errno {
	return writeStringVec(vm, vm.WASIArgs(), argvPtr, argvBufPtr)
}

func writeStringVec(vm *vmctx.VMContext, strs []string, vecPtr, bufPtr uint32) Errno {
	mem := vm.Memory()
	cursor := bufPtr
	for i, s := range strs {
		if errno := writeU32(mem, vecPtr+uint32(i)*4, cursor); errno != ErrnoSuccess {
			return errno
		}
		b, errno := guestSlice(mem, cursor, uint32(len(s)+1))
		if errno != ErrnoSuccess {
			return errno
		}
		copy(b, s)
		b[len(s)] = 0
		cursor += uint32(len(s) + 1)
	}
	return ErrnoSuccess
}
