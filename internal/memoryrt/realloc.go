package memoryrt

import "github.com/gowasm/jitrt/internal/vmctx"

// reallocBackend is the default growth strategy: allocate a new, larger
// slice and copy the old contents in, with the grown tail implicitly
// zero-filled by Go's make. This is the only strategy available for
// indexed memories (idx != 0) and for memory 0 when guarded mode was never
// enabled.
type reallocBackend struct{}

func (reallocBackend) grow(_ *vmctx.VMContext, _ int, cur []byte, newPages int64) ([]byte, bool) {
	newSize := newPages * vmctx.WasmPageSize
	grown := make([]byte, newSize)
	copy(grown, cur)
	return grown, true
}
