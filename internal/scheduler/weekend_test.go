package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theatreops/rota-backend/internal/domain"
)

func weekendTeam(t *testing.T) domain.TeamInput {
	t.Helper()
	names := []string{"Alice", "Bob", "Carol", "Dave"}
	var people []*domain.Person
	for _, n := range names {
		p, err := domain.NewPerson(domain.PersonParams{Name: n, WorkdaysPerWeek: 5, AvailableWeekends: true})
		require.NoError(t, err)
		people = append(people, p)
	}
	return domain.TeamInput{People: people}
}

func TestSolveWeekendExcludesPeopleNotAvailable(t *testing.T) {
	unavailable, err := domain.NewPerson(domain.PersonParams{Name: "Nora", WorkdaysPerWeek: 5, AvailableWeekends: false})
	require.NoError(t, err)
	team := domain.TeamInput{People: []*domain.Person{unavailable}}

	cfg := domain.DefaultSolveConfig()
	cfg.Weeks = 1
	cfg.Tries = 1

	result := SolveWeekend(context.Background(), team, cfg)
	require.NotNil(t, result.Schedule)
	assert.Equal(t, domain.Off, result.Schedule.ShiftOf("Nora", domain.CalendarPosition{Week: 1, Day: domain.Sat}))
}

func TestSolveWeekendFillsEveryPairSlotWhenEnoughPeopleAreEligible(t *testing.T) {
	cfg := domain.DefaultSolveConfig()
	cfg.Weeks = 1
	cfg.Tries = 3

	result := SolveWeekend(context.Background(), weekendTeam(t), cfg)
	require.NotNil(t, result.Diagnostics)
	assert.Equal(t, uint32(0), result.Diagnostics.VacantSlots)
}

func TestSolveWeekendNeverExceedsTheTwentyFourHourCap(t *testing.T) {
	cfg := domain.DefaultSolveConfig()
	cfg.Weeks = 2
	cfg.Tries = 3

	result := SolveWeekend(context.Background(), weekendTeam(t), cfg)
	require.NotNil(t, result.Diagnostics)
	assert.Equal(t, uint32(0), result.Diagnostics.HourCapExceeded)
}

func TestWeekendStateEligibleRejectsSecondNightOnSameDay(t *testing.T) {
	state := newWeekendState()
	state.commit("Alice", 1, domain.Sat, domain.Night)
	assert.False(t, state.eligible("Alice", 1, domain.Sat, domain.Night))
	assert.True(t, state.eligible("Alice", 1, domain.Sun, domain.Night))
}

func TestWeekendStateEligibleEnforcesHourCap(t *testing.T) {
	state := newWeekendState()
	state.commit("Alice", 1, domain.Sat, domain.Night) // 12h
	state.commit("Alice", 1, domain.Sun, domain.Night) // +12h = 24h, at cap
	assert.False(t, state.eligible("Alice", 1, domain.Sat, domain.Day))
}
