package trampoline

import (
	"unsafe"

	"github.com/gowasm/jitrt/internal/trap"
	"github.com/gowasm/jitrt/internal/vmctx"
)

// CallMultiReturn is the legacy "wide marshaling" dispatch style of
// spec.md §4.4 (`call_multi_return` in the original source): the host
// builds arguments by setting named AArch64 registers directly and
// harvesting X0/X1/D0/D1 plus an excess-return buffer.
//
// spec.md §9 itself flags this dispatcher as the risky one ("relies on
// compiler honoring the register contract") and recommends the
// trampoline-indirection style for new work. Rather than hand-assemble a
// second, variable-register-count dispatcher to match the original's
// inline-asm behavior exactly, this entry point is kept only as an API
// compatibility surface for callers still expressed against the legacy
// name: it forwards to CallTrampoline (internal/trampoline's stub-call
// primitive) using stub as the shared entry stub. Callers targeting new code
// should call CallTrampoline directly; this wrapper carries no register-contract logic of
// its own and cannot diverge from it.
func CallMultiReturn(vm *vmctx.VMContext, stub, targetFn unsafe.Pointer, values []uint64, arity, returnArity int) (trap.Code, error) {
	return CallTrampoline(vm, stub, targetFn, values, arity, returnArity)
}
