package vmctx

import "fmt"

// SetDataSegments installs the passive data segments captured at
// instantiation. Segments are copied into context-owned buffers (spec.md
// §3: "segments copied at instantiation... released [on Free]").
func (vm *VMContext) SetDataSegments(segments [][]byte) {
	owned := make([][]byte, len(segments))
	for i, s := range segments {
		owned[i] = append([]byte(nil), s...)
	}
	vm.dataSegments = owned
	vm.dataDropped = make([]bool, len(segments))
}

// DataSegment returns segment i's bytes and whether it has been dropped.
// Out-of-range i returns (nil, true, false) so callers can treat it as
// "dropped" for trapping purposes while reporting the distinct not-found
// case via the third return.
func (vm *VMContext) DataSegment(i int) (data []byte, dropped bool, ok bool) {
	if i < 0 || i >= len(vm.dataSegments) {
		return nil, true, false
	}
	return vm.dataSegments[i], vm.dataDropped[i], true
}

// DropDataSegment sets the dropped bit for segment i. Out-of-range i is a
// silent no-op, per spec.md §4.7; dropping twice is idempotent.
func (vm *VMContext) DropDataSegment(i int) {
	if i < 0 || i >= len(vm.dataDropped) {
		return
	}
	vm.dataDropped[i] = true
}

// SetElemSegments installs the passive element segments.
func (vm *VMContext) SetElemSegments(segments [][]elemEntry) {
	owned := make([][]elemEntry, len(segments))
	for i, s := range segments {
		owned[i] = append([]elemEntry(nil), s...)
	}
	vm.elemSegments = owned
	vm.elemDropped = make([]bool, len(segments))
}

// ElemSegment returns segment i's (value, typeIdx) pairs and whether it has
// been dropped.
func (vm *VMContext) ElemSegment(i int) (entries []elemEntry, dropped bool, ok bool) {
	if i < 0 || i >= len(vm.elemSegments) {
		return nil, true, false
	}
	return vm.elemSegments[i], vm.elemDropped[i], true
}

// DropElemSegment mirrors DropDataSegment for element segments.
func (vm *VMContext) DropElemSegment(i int) {
	if i < 0 || i >= len(vm.elemDropped) {
		return
	}
	vm.elemDropped[i] = true
}

// ElemEntry is the exported name for elemEntry, letting other packages
// declare slices of element-segment pairs (e.g. to build SetElemSegments'
// argument) without the package needing its own parallel type.
type ElemEntry = elemEntry

// NewElemEntry builds one element-segment pair; exported so instantiation
// code outside this package (which doesn't see the unexported elemEntry
// type) can build segments to pass to SetElemSegments.
func NewElemEntry(value uint64, typeIdx int32) elemEntry {
	return elemEntry{Value: value, TypeIdx: typeIdx}
}

// ElemValue and ElemType expose an elemEntry's fields to other packages.
func ElemValue(e elemEntry) uint64  { return e.Value }
func ElemType(e elemEntry) int32    { return e.TypeIdx }

// CaptureException stashes an in-flight exception's tag and payload values,
// mirroring the "exception frame" fields of spec.md §3.
func (vm *VMContext) CaptureException(tag int32, values []uint64) {
	vm.exception = exceptionFrame{tag: tag, values: append([]uint64(nil), values...), hasException: true}
}

// Exception returns the in-flight exception's tag and payload, and whether
// one is currently captured.
func (vm *VMContext) Exception() (tag int32, values []uint64, ok bool) {
	if !vm.exception.hasException {
		return 0, nil, false
	}
	return vm.exception.tag, vm.exception.values, true
}

// ClearException discards the captured exception frame.
func (vm *VMContext) ClearException() {
	vm.exception = exceptionFrame{}
}

// SetSpilledLocals captures the local-slot snapshot taken at throw.
func (vm *VMContext) SetSpilledLocals(values []uint64) {
	vm.spilledLocals = append([]uint64(nil), values...)
}

// SpilledLocals returns the most recently captured local-slot snapshot.
func (vm *VMContext) SpilledLocals() []uint64 { return vm.spilledLocals }

// DataSegmentCount and ElemSegmentCount report the segment-array lengths
// spec.md §3 lists as explicit fields; here they are just len().
func (vm *VMContext) DataSegmentCount() int { return len(vm.dataSegments) }
func (vm *VMContext) ElemSegmentCount() int { return len(vm.elemSegments) }

// checkMemoryIndex validates idx against the configured memory count,
// shared by every indexed memory libcall (spec.md §4.5).
func (vm *VMContext) checkMemoryIndex(idx int) error {
	if idx == 0 {
		return nil
	}
	if idx < 0 || idx >= len(vm.memories) {
		return fmt.Errorf("vmctx: memory index %d out of range [0,%d)", idx, len(vm.memories))
	}
	return nil
}
