package trampoline

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/gowasm/jitrt/internal/vmctx"
)

func TestCallPanicsOnNilVMContext(t *testing.T) {
	require.Panics(t, func() {
		_, _ = CallTrampoline(nil, unsafe.Pointer(&struct{}{}), unsafe.Pointer(&struct{}{}), nil, 0, 0)
	})
}

func TestCallPanicsOnNilStub(t *testing.T) {
	vm := vmctx.New(0)
	require.Panics(t, func() {
		_, _ = CallTrampoline(vm, nil, unsafe.Pointer(&struct{}{}), nil, 0, 0)
	})
}

func TestCallPanicsOnNilTargetFn(t *testing.T) {
	vm := vmctx.New(0)
	require.Panics(t, func() {
		_, _ = CallTrampoline(vm, unsafe.Pointer(&struct{}{}), nil, nil, 0, 0)
	})
}

func TestCallPanicsOnShortValuesVector(t *testing.T) {
	vm := vmctx.New(0)
	values := make([]uint64, 1)
	require.Panics(t, func() {
		_, _ = CallTrampoline(vm, unsafe.Pointer(&struct{}{}), unsafe.Pointer(&struct{}{}), values, 0, 2)
	})
}
