package gcrt

import (
	"github.com/gowasm/jitrt/api"
	"github.com/gowasm/jitrt/internal/trap"
)

// RefTest implements ref.test's full decision table (spec.md §4.8).
// target is a canonical index: negative for one of the abstract tags,
// non-negative for a registered concrete type.
func RefTest(heap *Heap, cache *TypeCache, value api.Ref, target int32, nullable bool) bool {
	switch api.KindOf(value) {
	case api.KindNull:
		return nullable

	case api.KindExternref:
		return target == CanonExtern || target == CanonAny

	case api.KindFuncPtr, api.KindIRFunc:
		if target == CanonNoFunc {
			return false // only literal null matches nofunc
		}
		return target == CanonFunc

	case api.KindI31:
		switch target {
		case CanonI31, CanonEq, CanonAny, CanonExtern:
			return true
		default:
			return false
		}

	case api.KindHeap:
		typeIdx, kind, err := heap.TypeIndexOf(value)
		if err != nil {
			return false
		}
		switch target {
		case CanonAny:
			return true
		case CanonEq:
			return kind == KindStruct || kind == KindArray
		case CanonStruct:
			return kind == KindStruct
		case CanonArray:
			return kind == KindArray
		case CanonExtern:
			return kind == KindStruct || kind == KindArray
		case CanonNull, CanonNoFunc, CanonNoExtern:
			return false
		default:
			return cache.IsSubtype(typeIdx, target)
		}

	default:
		return false
	}
}

// RefCast runs RefTest and, on success, returns value unchanged; on
// failure it raises trap code 4 (indirect-call/cast type mismatch), per
// spec.md §4.8: "ref.cast... raises trap 4 on failure."
func RefCast(heap *Heap, cache *TypeCache, value api.Ref, target int32, nullable bool) (api.Ref, error) {
	if !RefTest(heap, cache, value, target, nullable) {
		return api.RefNull, trap.New(trap.CodeIndirectCallTypeMismatch)
	}
	return value, nil
}
