package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftBoundaryCodeRoundTrip(t *testing.T) {
	for _, s := range AllShifts {
		code := s.BoundaryCode()
		parsed, err := ShiftFromBoundaryCode(code)
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}

func TestShiftFromBoundaryCodeRejectsUnknown(t *testing.T) {
	_, err := ShiftFromBoundaryCode("X")
	require.Error(t, err)
}

func TestShiftArityMatchesPairShiftFlag(t *testing.T) {
	for _, s := range []Shift{Day, Evening, Night} {
		assert.Equal(t, 2, s.Arity())
		assert.True(t, s.IsPairShift())
	}
	assert.Equal(t, 1, Admin.Arity())
	assert.False(t, Admin.IsPairShift())
	assert.Equal(t, 0, Off.Arity())
}

func TestShiftIsWorking(t *testing.T) {
	assert.True(t, Day.IsWorking())
	assert.True(t, Admin.IsWorking())
	assert.False(t, Off.IsWorking())
	assert.False(t, Edo.IsWorking())
}
