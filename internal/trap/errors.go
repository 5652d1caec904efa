package trap

import "fmt"

// Trap is the error type every libcall and the trampoline itself raise to
// unwind out of a guarded call. It carries the numeric Code the host reads
// back plus an optional human-readable Detail used only for logging --
// Detail is never part of the ABI.
type Trap struct {
	Code   Code
	Detail string
}

func (t *Trap) Error() string {
	if t.Detail == "" {
		return t.Code.String()
	}
	return fmt.Sprintf("%s: %s", t.Code, t.Detail)
}

// New builds a Trap with no detail, the common case inside hot libcalls.
func New(code Code) *Trap { return &Trap{Code: code} }

// Newf builds a Trap with a formatted detail string, for the few call sites
// where the extra diagnostic is worth the allocation (RunGuarded's
// classification of recovered faults and panics, already on a slow,
// non-hot path).
func Newf(code Code, format string, args ...any) *Trap {
	return &Trap{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// Sentinel errors mirroring the teacher's wasmruntime package idiom
// (ErrRuntimeOutOfBoundsMemoryAccess etc.), kept as package vars so callers
// can errors.Is against a specific trap kind without inspecting Code.
var (
	ErrOutOfBoundsMemoryAccess    = New(CodeOutOfBoundsMemoryAccess)
	ErrCallStackExhausted         = New(CodeCallStackExhausted)
	ErrUnreachable                = New(CodeUnreachable)
	ErrIndirectCallTypeMismatch   = New(CodeIndirectCallTypeMismatch)
	ErrInvalidConversionToInteger = New(CodeInvalidConversionToInteger)
	ErrIntegerDivideByZero        = New(CodeIntegerDivideByZero)
	ErrIntegerOverflow            = New(CodeIntegerOverflow)
)

// Is implements errors.Is comparison by Code alone, so a Trap built with a
// Detail still matches its bare sentinel.
func (t *Trap) Is(target error) bool {
	other, ok := target.(*Trap)
	if !ok {
		return false
	}
	return t.Code == other.Code
}
