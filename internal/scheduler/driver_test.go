package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theatreops/rota-backend/internal/domain"
)

func smallTeam(t *testing.T) domain.TeamInput {
	t.Helper()
	names := []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank"}
	var people []*domain.Person
	for _, n := range names {
		p, err := domain.NewPerson(domain.PersonParams{Name: n, WorkdaysPerWeek: 5})
		require.NoError(t, err)
		people = append(people, p)
	}
	return domain.TeamInput{People: people}
}

func TestSolveRejectsEmptyTeamBeforeRunningAnyAttempt(t *testing.T) {
	result := Solve(context.Background(), domain.TeamInput{}, domain.DefaultSolveConfig())
	assert.Equal(t, domain.StatusError, result.Status)
	require.Error(t, result.Err)
}

func TestSolveRejectsOutOfRangeConfig(t *testing.T) {
	cfg := domain.DefaultSolveConfig()
	cfg.Weeks = 0
	result := Solve(context.Background(), smallTeam(t), cfg)
	assert.Equal(t, domain.StatusError, result.Status)
}

func TestSolveProducesAScheduleForASmallTeam(t *testing.T) {
	cfg := domain.DefaultSolveConfig()
	cfg.Weeks = 1
	cfg.Tries = 2
	cfg.TimeLimitSeconds = 5

	result := Solve(context.Background(), smallTeam(t), cfg)

	require.NotEqual(t, domain.StatusError, result.Status)
	require.NotNil(t, result.Schedule)
	require.NotNil(t, result.Diagnostics)
	assert.False(t, result.Diagnostics.IsInvalid())
}

func TestBetterOutcomeBreaksTiesByVacantSlotsThenSeed(t *testing.T) {
	a := &attemptOutcome{seed: 5, score: 1, diag: domain.NewDiagnostics()}
	b := &attemptOutcome{seed: 1, score: 1, diag: domain.NewDiagnostics()}
	// Equal score and vacancy: lower seed wins.
	assert.False(t, betterOutcome(a, b))
	assert.True(t, betterOutcome(b, a))

	c := &attemptOutcome{seed: 1, score: 1, diag: &domain.Diagnostics{VacantSlots: 2}}
	d := &attemptOutcome{seed: 99, score: 1, diag: &domain.Diagnostics{VacantSlots: 0}}
	assert.True(t, betterOutcome(d, c))
}
