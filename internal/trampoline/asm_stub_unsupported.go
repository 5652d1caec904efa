//go:build !arm64

package trampoline

import (
	"fmt"
	"runtime"
	"unsafe"
)

// callStub has no implementation outside arm64: the code generator this
// module accepts compiled machine code from only ever targets AArch64
// (spec.md §1's "an AArch64 calling convention"), so there is nothing to
// call through on any other GOARCH.
func callStub(stub, vmctxPtr unsafe.Pointer, valuesVec *uint64, targetFn unsafe.Pointer) int32 {
	panic(fmt.Sprintf("trampoline: callStub is unsupported on GOARCH=%s", runtime.GOARCH))
}
