package trap

import (
	"runtime"
	"runtime/debug"
	"sync/atomic"
)

// GuardedRegion lets RunGuarded classify a recovered hardware fault against
// a VM context's guarded-memory reservation without trap importing vmctx
// (which would create an import cycle, since vmctx libcalls raise *Trap).
// internal/vmctx.VMContext implements this directly.
type GuardedRegion interface {
	// InGuardReservation reports whether addr falls inside the guarded
	// memory's reserved-but-PROT_NONE region, i.e. the fault is an OOB
	// linear-memory access rather than an unrelated fault.
	InGuardReservation(addr uintptr) bool
}

// Guard is the single-writer-per-instance reentrancy guard spec.md §5
// requires, scoped per VM context rather than process-global -- the
// redesign spec.md §9 itself calls for. Zero value is usable.
type Guard struct {
	active atomic.Bool
}

// ErrReentrantCall is returned by RunGuarded when a second trampoline call
// is attempted against a context that already has one in flight.
var ErrReentrantCall = New(CodeUnknown)

// RunGuarded arms g, runs fn, and converts any panic fn raises -- whether a
// *Trap raised by a libcall, or a runtime.Error surfaced by Go's
// SetPanicOnFault mechanism for an invalid memory access -- into a typed
// Code. It is the substrate's only entrypoint; every call through
// internal/trampoline funnels through here exactly once.
func RunGuarded(g *Guard, region GuardedRegion, fn func()) (code Code, err error) {
	if !g.active.CompareAndSwap(false, true) {
		return CodeUnknown, ErrReentrantCall
	}
	prev := debug.SetPanicOnFault(true)
	defer func() {
		debug.SetPanicOnFault(prev)
		g.active.Store(false)

		r := recover()
		if r == nil {
			return
		}
		switch v := r.(type) {
		case *Trap:
			code, err = v.Code, v
		case runtime.Error:
			code, err = classifyFault(region, v)
		case error:
			code, err = CodeUnknown, v
		default:
			code, err = CodeUnknown, Newf(CodeUnknown, "recovered non-error panic: %v", v)
		}
	}()
	fn()
	return CodeOK, nil
}

// classifyFault is the Go analog of the C SIGSEGV/SIGBUS handler: it
// cannot recover the faulting address the way a real signal handler's
// siginfo_t can (Go's SetPanicOnFault gives no structured fault info), so
// it falls back to the same "otherwise unknown" rule spec.md §4.2
// prescribes whenever it cannot place the fault inside the guarded
// reservation. When the caller supplies a region whose guarded memory is
// active (it reports GuardedMemoryActive() == true), faults are
// optimistically attributed to an OOB access, since that's overwhelmingly
// the only way generated code can fault through a guard-page reservation.
func classifyFault(region GuardedRegion, cause error) (Code, error) {
	if a, ok := region.(interface{ GuardedMemoryActive() bool }); ok && a.GuardedMemoryActive() {
		return CodeOutOfBoundsMemoryAccess, Newf(CodeOutOfBoundsMemoryAccess, "%v", cause)
	}
	return CodeUnknown, Newf(CodeUnknown, "%v", cause)
}
