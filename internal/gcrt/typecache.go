// Package gcrt implements the WebAssembly-GC struct/array primitives of
// spec.md §4.8: a canonical-index subtype cache, heap allocation, field
// and element access, and the ref.test/ref.cast decision table. There is
// no teacher or pack grounding for WebAssembly GC itself -- the retrieval
// pack predates the GC proposal's stabilization -- so this package is
// built directly from spec.md's own data model; only the canonical-index
// hashing borrows a pack dependency (cespare/xxhash). See SPEC_FULL.md
// §6.8 and DESIGN.md's grounding ledger entry for this package.
package gcrt

import (
	"fmt"

	"github.com/cespare/xxhash"
)

// Canonical indices for the abstract reference types, per spec.md §4.8's
// table. Concrete struct/array/func types are assigned non-negative
// canonical indices by RegisterType.
const (
	CanonAny       int32 = -1
	CanonEq        int32 = -2
	CanonI31       int32 = -3
	CanonStruct    int32 = -4
	CanonArray     int32 = -5
	CanonFunc      int32 = -6
	CanonExtern    int32 = -7
	CanonNull      int32 = -8 // bottom of any
	CanonNoFunc    int32 = -9
	CanonNoExtern  int32 = -10
)

// TypeKind distinguishes the three concrete GC type shapes.
type TypeKind uint8

const (
	KindStruct TypeKind = iota
	KindArray
	KindFunc
)

// FieldType is the element/field storage tag used by array-from-segment
// constructors (spec.md §4.8: "i8/i16 load zero-extended to 32 bits;
// i32/f32 read 4 bytes little-endian; i64/f64 read 8 bytes little-endian").
type FieldType uint8

const (
	FieldI8 FieldType = iota
	FieldI16
	FieldI32
	FieldI64
	FieldF32
	FieldF64
	FieldRef // reference-typed: only element/elem-segment initializable
)

// TypeDef describes one registered concrete type.
type TypeDef struct {
	CanonicalIndex int32
	SuperIndex     int32 // an abstract Canon* tag (e.g. CanonStruct, CanonArray) or another concrete index; self-referential super is tolerated
	Kind           TypeKind
	FieldTypes     []FieldType // struct: one per field; array: unused
	ElemType       FieldType   // array only
}

// TypeCache holds every registered concrete type, keyed by canonical
// index, and answers subtype queries by walking the supertype chain.
type TypeCache struct {
	defs map[int32]TypeDef
}

// NewTypeCache returns an empty cache.
func NewTypeCache() *TypeCache {
	return &TypeCache{defs: make(map[int32]TypeDef)}
}

// RegisterType adds def to the cache. The supertype-chain cycle guard
// spec.md §9 calls for is enforced here, at population time, rather than
// by the subtype walker: a def whose eventual SuperIndex chain loops back
// on a *different* earlier index before reaching an abstract bottom is
// rejected, so IsSubtype's walker can stay a simple bounded loop that only
// needs to tolerate a super index equal to the node's own index (a
// self-reference, which terminates the walk rather than looping it).
func (c *TypeCache) RegisterType(def TypeDef) error {
	if def.CanonicalIndex < 0 {
		return fmt.Errorf("gcrt: RegisterType: canonical index %d collides with an abstract-type tag", def.CanonicalIndex)
	}
	// A def whose own SuperIndex names itself is the tolerated
	// self-reference spec.md §9 calls for: it terminates the walk
	// immediately and needs no cycle check.
	if def.SuperIndex >= 0 && def.SuperIndex != def.CanonicalIndex {
		seen := map[int32]bool{def.SuperIndex: true}
		cur := def.SuperIndex
		for {
			super, ok := c.defs[cur]
			if !ok {
				break // forward reference to a not-yet-registered type is allowed
			}
			next := super.SuperIndex
			if next == cur || next < 0 {
				break // that node's own self-reference, or an abstract bottom, terminates the chain
			}
			if next == def.CanonicalIndex || seen[next] {
				return fmt.Errorf("gcrt: RegisterType: supertype cycle detected involving canonical index %d", next)
			}
			seen[next] = true
			cur = next
		}
	}
	c.defs[def.CanonicalIndex] = def
	return nil
}

// Lookup returns the registered def for idx.
func (c *TypeCache) Lookup(idx int32) (TypeDef, bool) {
	d, ok := c.defs[idx]
	return d, ok
}

// IsSubtype reports whether sub is target or a descendant of target in the
// supertype lattice, walking up from sub. Abstract tags are matched
// directly; a concrete sub walks its registered chain. The walk stops at a
// node whose super is itself (the tolerated self-reference case), at an
// abstract tag, or as soon as it revisits any index already on the path,
// to guarantee termination even against a cache populated with looser
// checking than RegisterType performs.
func (c *TypeCache) IsSubtype(sub, target int32) bool {
	if sub == target {
		return true
	}
	if sub < 0 {
		return false // abstract tags other than target itself never match a different tag here
	}
	visited := map[int32]bool{sub: true}
	cur := sub
	for {
		def, ok := c.defs[cur]
		if !ok {
			return false
		}
		next := def.SuperIndex
		if next == cur {
			return false // self-referential super, tolerated terminator
		}
		if next == target {
			return true
		}
		if next < 0 || visited[next] {
			return false
		}
		visited[next] = true
		cur = next
	}
}

// hashCanonicalKey derives a stable canonical-index hash for a structural
// signature, used when assigning canonical indices to newly encountered
// structural types during module instantiation (two structurally
// identical recursive type groups must canonicalize to the same index).
// Grounded on github.com/cespare/xxhash, the hash the pack's
// stealthrocket/wazero-profiler module uses for an analogous type/location
// interning cache.
func hashCanonicalKey(signature []byte) uint64 {
	return xxhash.Sum64(signature)
}

// CanonicalKeyHash exposes hashCanonicalKey for instantiation code that
// interns structurally-equal recursive type groups to the same canonical
// index before calling RegisterType.
func CanonicalKeyHash(signature []byte) uint64 {
	return hashCanonicalKey(signature)
}
