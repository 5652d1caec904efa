package wasip1

import (
	"crypto/rand"

	"github.com/gowasm/jitrt/internal/vmctx"
)

// RandomGet fills length bytes at bufPtr with cryptographically secure
// random bytes, the teacher's own choice for random_get.
func RandomGet(vm *vmctx.VMContext, bufPtr, length uint32) Errno {
	b, errno := guestSlice(vm.Memory(), bufPtr, length)
	if errno != ErrnoSuccess {
		return errno
	}
	if _, err := rand.Read(b); err != nil {
		return ErrnoIo
	}
	return ErrnoSuccess
}
