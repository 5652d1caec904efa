package wasip1

import (
	"encoding/binary"
	"time"

	"github.com/gowasm/jitrt/internal/vmctx"
)

// WASI eventtype tags.
const (
	eventtypeClock = 0
	eventtypeRead  = 1
	eventtypeWrite = 2
)

const subscriptionSize = 48 // __wasi_subscription_t
const eventSize = 32        // __wasi_event_t

// PollOneoff implements a clock-only poll_oneoff (SPEC_FULL.md §6.9): every
// subscription must be an eventtype_clock subscription. It sleeps for the
// shortest requested timeout via time.Sleep, then reports every clock
// subscription as ready. Each timeout is read as a duration from now; the
// subscription's abstime flag is not consulted. If any subscription is not
// a clock subscription, the whole call returns ErrnoNotsup without writing
// any event, leaving fd read/write readiness unimplemented -- this runtime
// has no async I/O reactor to back it.
func PollOneoff(vm *vmctx.VMContext, inPtr, outPtr, nsubscriptions, neventsPtr uint32) Errno {
	mem := vm.Memory()
	if nsubscriptions == 0 {
		return writeU32(mem, neventsPtr, 0)
	}

	type clockSub struct {
		userdata uint64
		timeout  time.Duration
	}
	subs := make([]clockSub, 0, nsubscriptions)

	for i := uint32(0); i < nsubscriptions; i++ {
		base := inPtr + i*subscriptionSize
		b, errno := guestSlice(mem, base, subscriptionSize)
		if errno != ErrnoSuccess {
			return errno
		}
		userdata := binary.LittleEndian.Uint64(b[0:8])
		tag := b[8]
		if tag != eventtypeClock {
			return ErrnoNotsup
		}
		timeoutNs := binary.LittleEndian.Uint64(b[24:32])
		subs = append(subs, clockSub{userdata: userdata, timeout: time.Duration(timeoutNs)})
	}

	shortest := subs[0].timeout
	for _, s := range subs[1:] {
		if s.timeout < shortest {
			shortest = s.timeout
		}
	}
	if shortest > 0 {
		time.Sleep(shortest)
	}

	for i, s := range subs {
		evBase := outPtr + uint32(i)*eventSize
		evb, errno := guestSlice(mem, evBase, eventSize)
		if errno != ErrnoSuccess {
			return errno
		}
		binary.LittleEndian.PutUint64(evb[0:8], s.userdata)
		binary.LittleEndian.PutUint16(evb[8:10], uint16(ErrnoSuccess))
		evb[10] = eventtypeClock
	}
	return writeU32(mem, neventsPtr, uint32(len(subs)))
}
