package trap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrapIsMatchesByCodeOnly(t *testing.T) {
	t1 := Newf(CodeOutOfBoundsMemoryAccess, "memory 0, offset %d", 65536)
	require.True(t, errors.Is(t1, ErrOutOfBoundsMemoryAccess))
	require.False(t, errors.Is(t1, ErrIntegerDivideByZero))
}

func TestRunGuardedRecoversTrap(t *testing.T) {
	var g Guard
	code, err := RunGuarded(&g, nil, func() {
		panic(New(CodeUnreachable))
	})
	require.Equal(t, CodeUnreachable, code)
	require.Error(t, err)
}

func TestRunGuardedRejectsReentrance(t *testing.T) {
	var g Guard
	require.True(t, g.active.CompareAndSwap(false, true))
	code, err := RunGuarded(&g, nil, func() {})
	require.Equal(t, CodeUnknown, code)
	require.ErrorIs(t, err, ErrReentrantCall)
	g.active.Store(false)
}

func TestRunGuardedReleasesGuardOnSuccess(t *testing.T) {
	var g Guard
	_, err := RunGuarded(&g, nil, func() {})
	require.NoError(t, err)
	require.True(t, g.active.CompareAndSwap(false, true))
	g.active.Store(false)
}

func TestBRKRoundTrip(t *testing.T) {
	instr, err := EncodeBRK(CodeIntegerOverflow)
	require.NoError(t, err)
	code, ok := DecodeBRKInstruction(instr)
	require.True(t, ok)
	require.Equal(t, CodeIntegerOverflow, code)
}
