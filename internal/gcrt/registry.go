package gcrt

import (
	"sync"

	"github.com/gowasm/jitrt/internal/vmctx"
)

// vmGCState pairs a heap and type cache with the VMContext generation they
// were registered against, so a freed-and-reused *VMContext (vmctx.New
// reuses no pointers today, but Generation exists precisely to guard this
// class of bug -- see vmctx.VMContext.Generation) can never resolve a
// stale heap through a dangling registry entry.
type vmGCState struct {
	generation uint64
	heap       *Heap
	cache      *TypeCache
}

var (
	registryMu sync.Mutex
	registry   = map[*vmctx.VMContext]*vmGCState{}
)

func stateFor(vm *vmctx.VMContext) *vmGCState {
	s, ok := registry[vm]
	if !ok || s.generation != vm.Generation {
		s = &vmGCState{generation: vm.Generation}
		registry[vm] = s
	}
	return s
}

// SetHeap attaches a heap to vm, for gc libcalls that only receive a
// *vmctx.VMContext (the external code generator's calling convention,
// SPEC_FULL.md §8) rather than a *Heap directly.
func SetHeap(vm *vmctx.VMContext, h *Heap) {
	registryMu.Lock()
	defer registryMu.Unlock()
	stateFor(vm).heap = h
}

// ClearHeap detaches vm's heap, leaving any registered type cache intact.
func ClearHeap(vm *vmctx.VMContext) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if s, ok := registry[vm]; ok && s.generation == vm.Generation {
		s.heap = nil
	}
}

// HeapOf returns vm's registered heap, or nil if none was set (or it was
// set against an earlier generation of a reused VMContext pointer).
func HeapOf(vm *vmctx.VMContext) *Heap {
	registryMu.Lock()
	defer registryMu.Unlock()
	s, ok := registry[vm]
	if !ok || s.generation != vm.Generation {
		return nil
	}
	return s.heap
}

// SetTypeCache attaches a canonical type cache to vm.
func SetTypeCache(vm *vmctx.VMContext, c *TypeCache) {
	registryMu.Lock()
	defer registryMu.Unlock()
	stateFor(vm).cache = c
}

// TypeCacheOf returns vm's registered type cache, or nil.
func TypeCacheOf(vm *vmctx.VMContext) *TypeCache {
	registryMu.Lock()
	defer registryMu.Unlock()
	s, ok := registry[vm]
	if !ok || s.generation != vm.Generation {
		return nil
	}
	return s.cache
}

// SetCanonicalIndices bulk-registers every module-level type definition in
// one call, the shape a code generator populates at module-instantiation
// time before any gc libcall can run.
func SetCanonicalIndices(vm *vmctx.VMContext, defs []TypeDef) error {
	cache := NewTypeCache()
	for _, d := range defs {
		if err := cache.RegisterType(d); err != nil {
			return err
		}
	}
	SetTypeCache(vm, cache)
	return nil
}

// ClearCache drops vm's entire GC registration (heap and type cache), for
// full teardown alongside VMContext.Free.
func ClearCache(vm *vmctx.VMContext) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, vm)
}
