package memoryrt

import (
	"fmt"

	"github.com/gowasm/jitrt/internal/vmctx"
)

// GuardedReservationSize is the total virtual region reserved per guarded
// memory, 8 GiB of address space plus 64 KiB slack, per spec.md §4.5.
const GuardedReservationSize = 8*1024*1024*1024 + 64*1024

// ReserveGuarded reserves GuardedReservationSize bytes of PROT_NONE address
// space, makes the first initialPages pages accessible, and wires the
// reservation bounds into vm so internal/trap's fault classifier can
// recognize an out-of-bounds access inside it. Out-of-bounds accesses past
// the accessible prefix then fault deterministically via SIGSEGV, which
// RunGuarded's panic/recover substrate converts into CodeOutOfBoundsMemoryAccess.
func ReserveGuarded(vm *vmctx.VMContext, initialPages int64) error {
	reservation, err := reserveGuardedRegion(GuardedReservationSize)
	if err != nil {
		return fmt.Errorf("memoryrt: ReserveGuarded: %w", err)
	}
	initial := reservation[:initialPages*vmctx.WasmPageSize]
	if len(initial) > 0 {
		if err := promoteGuardedPages(initial); err != nil {
			return fmt.Errorf("memoryrt: ReserveGuarded: initial promotion: %w", err)
		}
	}
	vm.EnableGuardedMemory(addrOf(reservation), uintptr(len(reservation)))
	vm.SetMemory(initial, vm.MemoryCap())
	return nil
}

// guardedBackend grows a guarded memory by promoting additional pages
// within the existing reservation to read-write; it never reallocates, so
// pointers into the region stay valid across a grow.
type guardedBackend struct{}

func (guardedBackend) grow(vm *vmctx.VMContext, _ int, cur []byte, newPages int64) ([]byte, bool) {
	base := vm.GuardReservationBase()
	reserved := vm.GuardReservationSize()
	newSize := newPages * vmctx.WasmPageSize
	if uintptr(newSize) > reserved {
		return nil, false
	}
	full := sliceFromReservation(base, reserved)
	grownRegion := full[:newSize]
	toPromote := grownRegion[len(cur):]
	if len(toPromote) > 0 {
		if err := promoteGuardedPages(toPromote); err != nil {
			return nil, false
		}
	}
	return grownRegion, true
}
