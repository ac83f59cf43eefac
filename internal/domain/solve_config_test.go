package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSolveConfigIsValid(t *testing.T) {
	cfg := DefaultSolveConfig()
	require.NoError(t, cfg.Validate())
}

func TestSolveConfigValidateRejectsOutOfRangeWeeks(t *testing.T) {
	cfg := DefaultSolveConfig()
	cfg.Weeks = 0
	require.Error(t, cfg.Validate())

	cfg.Weeks = 25
	require.Error(t, cfg.Validate())
}

func TestSolveConfigValidateRejectsOutOfRangeTries(t *testing.T) {
	cfg := DefaultSolveConfig()
	cfg.Tries = 0
	require.Error(t, cfg.Validate())

	cfg.Tries = 51
	require.Error(t, cfg.Validate())
}

func TestSolveConfigValidateRejectsNonPositiveTimeLimit(t *testing.T) {
	cfg := DefaultSolveConfig()
	cfg.TimeLimitSeconds = 0
	require.Error(t, cfg.Validate())
}

func TestSolverErrorUnwraps(t *testing.T) {
	cause := &InputError{Reason: "boom"}
	err := &SolverError{Seed: 1, Err: cause}
	assert.Equal(t, cause, err.Unwrap())
}
