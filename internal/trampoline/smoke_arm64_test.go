//go:build arm64

package trampoline

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/gowasm/jitrt/internal/execmem"
	"github.com/gowasm/jitrt/internal/trap"
	"github.com/gowasm/jitrt/internal/vmctx"
)

// stubFixtureCode is a hand-encoded, four-instruction AArch64 fixture
// standing in for a JIT-emitted entry stub -- not the out-of-scope code
// generator's output, just enough machine code to exercise asm_arm64.s's
// register-passing contract end to end. It ignores X2 (target_fn_ptr)
// entirely and instead directly implements the stub contract for the
// smoke-call scenario of spec.md §8 ("compile (i32.const 42); call via
// trampoline with empty args; expect return value 42 and trap code 0"):
//
//	MOVZ W3, #42      ; 52800543
//	STR  W3, [X1]     ; b9000023   -- values_vec[0] = 42
//	MOVZ W0, #0       ; 52800000   -- trap code CodeOK
//	RET               ; d65f03c0
func stubFixtureCode() []byte {
	words := []uint32{0x52800543, 0xb9000023, 0x52800000, 0xd65f03c0}
	out := make([]byte, len(words)*4)
	for i, w := range words {
		out[i*4+0] = byte(w)
		out[i*4+1] = byte(w >> 8)
		out[i*4+2] = byte(w >> 16)
		out[i*4+3] = byte(w >> 24)
	}
	return out
}

func TestCallSmokeConst42(t *testing.T) {
	mgr := execmem.New()
	arena, err := mgr.Alloc(64)
	require.NoError(t, err)
	require.NoError(t, mgr.Install(arena, stubFixtureCode()))
	defer mgr.Free(arena)

	stub := unsafe.Pointer(&arena[0])
	vm := vmctx.New(0)
	values := make([]uint64, 1)

	code, err := CallTrampoline(vm, stub, stub, values, 0, 1)
	require.NoError(t, err)
	require.Equal(t, trap.CodeOK, code)
	require.Equal(t, uint64(42), values[0])
}
