package wasip1

import (
	"time"

	"github.com/gowasm/jitrt/internal/vmctx"
)

// WASI clock identifiers, snapshot-01.
const (
	ClockRealtime = iota
	ClockMonotonic
	ClockProcessCputimeID
	ClockThreadCputimeID
)

var processStartTime = time.Now()

// ClockTimeGet writes the current time for clockID, in nanoseconds since
// either the Unix epoch (realtime) or an arbitrary monotonic origin, to
// timestampPtr. precision is advisory and unused, matching the teacher's
// clock.go (the host clock is always finer-grained than any guest asks for).
func ClockTimeGet(vm *vmctx.VMContext, clockID uint32, precision uint64, timestampPtr uint32) Errno {
	var ns uint64
	switch clockID {
	case ClockRealtime:
		ns = uint64(time.Now().UnixNano())
	case ClockMonotonic:
		ns = uint64(time.Since(processStartTime).Nanoseconds())
	case ClockProcessCputimeID, ClockThreadCputimeID:
		ns = uint64(time.Since(processStartTime).Nanoseconds())
	default:
		return ErrnoInval
	}
	return writeU64(vm.Memory(), timestampPtr, ns)
}

// ClockResGet reports the clock's resolution in nanoseconds. Go's runtime
// clock has no finer guarantee than 1ns, so every clock reports 1.
func ClockResGet(vm *vmctx.VMContext, clockID uint32, resolutionPtr uint32) Errno {
	switch clockID {
	case ClockRealtime, ClockMonotonic, ClockProcessCputimeID, ClockThreadCputimeID:
		return writeU64(vm.Memory(), resolutionPtr, 1)
	default:
		return ErrnoInval
	}
}
