// Package trampoline implements the host-to-JIT call trampoline of
// spec.md §4.4: the native entry point that marshals a flat argument
// vector into the AArch64 calling convention the (out-of-scope) code
// generator emits against, invokes compiled code, and recovers results and
// trap codes. See SPEC_FULL.md §6.4.
package trampoline

import (
	"fmt"
	"unsafe"

	"github.com/gowasm/jitrt/internal/trap"
	"github.com/gowasm/jitrt/internal/vmctx"
)

// callStub is the fixed, three-argument native call this package's asm
// glue performs: BLR to stub with X0=vmctxPtr, X1=valuesVec, X2=targetFn,
// returning the W0 result. stub is itself a JIT-emitted entry stub
// (spec.md §4.4's "trampoline indirection" style) whose signature is
// exactly "fn(vmctx, values_vec, target_fn_ptr) -> int" -- the stub (not
// this package) performs the per-function argument fan-out into
// target_fn_ptr's own ABI, since that logic depends on the target
// function's arity and is therefore produced by the out-of-scope code
// generator, not hand-written here. This package's only job is the fixed,
// arity-independent act of calling that stub.
//
// Implemented in asm_arm64.s on arm64, and by a panicking stand-in on
// every other GOARCH (asm_stub_unsupported.go) since the code generator
// this module accepts input from never targets anything else.
//
//go:noescape
func callStub(stub unsafe.Pointer, vmctxPtr unsafe.Pointer, valuesVec *uint64, targetFn unsafe.Pointer) int32

// CallTrampoline runs the trampoline-indirection dispatch style of spec.md §4.4: it
// hands control to stub, a JIT-emitted entry stub which itself performs
// the ABI fan-out for targetFn, hiding all register-convention logic from
// this package. This is the preferred path for multi-value returns.
//
// Preconditions: vm, stub, and targetFn are all non-nil; values has length
// at least max(arity, returnArity) -- the stub reads up to arity words in
// and writes up to returnArity words back, in place. Violating a
// precondition is a caller bug, not a trap, so it panics rather than
// returning a Code.
//
// Result: CodeOK on success; the stub's own BRK-encoded trap code, or
// CodeUnknown for an unclassified hardware fault, otherwise. On a non-OK
// result the contents of values are unspecified. Cancellation: a trap
// unwinds through RunGuarded's recover; there is no cooperative
// cancellation, matching spec.md §4.4's sigsetjmp-unwind description.
func CallTrampoline(vm *vmctx.VMContext, stub, targetFn unsafe.Pointer, values []uint64, arity, returnArity int) (trap.Code, error) {
	if vm == nil {
		panic("trampoline: Call with nil vmctx")
	}
	if stub == nil {
		panic("trampoline: Call with nil entry stub")
	}
	if targetFn == nil {
		panic("trampoline: Call with nil target function pointer")
	}
	need := arity
	if returnArity > need {
		need = returnArity
	}
	if len(values) < need {
		panic(fmt.Sprintf("trampoline: Call values vector has length %d, need >= %d", len(values), need))
	}

	var valuesPtr *uint64
	if len(values) > 0 {
		valuesPtr = &values[0]
	}

	var code trap.Code
	guardCode, err := trap.RunGuarded(vm.CallGuard(), vm, func() {
		code = trap.Code(callStub(stub, unsafe.Pointer(vm), valuesPtr, targetFn))
	})
	if err != nil {
		vm.Logger().TrapDelivered(int32(guardCode), err.Error())
		return guardCode, err
	}
	if code != trap.CodeOK {
		t := trap.New(code)
		vm.Logger().TrapDelivered(int32(code), "")
		return code, t
	}
	return trap.CodeOK, nil
}
