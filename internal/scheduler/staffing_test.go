package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theatreops/rota-backend/internal/domain"
)

func mustPersonForStaffing(t *testing.T, name string, workdays int) *domain.Person {
	t.Helper()
	p, err := domain.NewPerson(domain.PersonParams{Name: name, WorkdaysPerWeek: workdays})
	require.NoError(t, err)
	return p
}

func TestDeriveStaffingReservesOneNightPairPerWeekday(t *testing.T) {
	team := domain.TeamInput{People: []*domain.Person{
		mustPersonForStaffing(t, "Alice", 5),
		mustPersonForStaffing(t, "Bob", 5),
		mustPersonForStaffing(t, "Carol", 5),
		mustPersonForStaffing(t, "Dave", 5),
	}}
	plan := DeriveStaffing(team, domain.NewEdoPlan(), 1)

	for _, day := range domain.WeekdayDays {
		assert.Equal(t, 1, plan.Get(1, day, domain.Night), day.String())
	}
}

func TestDeriveStaffingReservesSoloAdminOnOddPersonDays(t *testing.T) {
	team := domain.TeamInput{People: []*domain.Person{
		mustPersonForStaffing(t, "Alice", 5),
		mustPersonForStaffing(t, "Bob", 4),
		mustPersonForStaffing(t, "Carol", 4),
	}}
	// 13 person-days: odd, so Monday admin absorbs the leftover single.
	plan := DeriveStaffing(team, domain.NewEdoPlan(), 1)
	assert.Equal(t, 1, plan.Get(1, domain.Mon, domain.Admin))
}

func TestDeriveStaffingSkipsAdminSlotWhenPersonDaysAreEven(t *testing.T) {
	team := domain.TeamInput{People: []*domain.Person{
		mustPersonForStaffing(t, "Alice", 4),
		mustPersonForStaffing(t, "Bob", 4),
	}}
	plan := DeriveStaffing(team, domain.NewEdoPlan(), 1)
	assert.Equal(t, 0, plan.Get(1, domain.Mon, domain.Admin))
}

func TestDeriveStaffingCountsEdoRecipientsOutOfAvailablePersonDays(t *testing.T) {
	team := domain.TeamInput{People: []*domain.Person{
		mustPersonForStaffing(t, "Alice", 5),
		mustPersonForStaffing(t, "Bob", 5),
		mustPersonForStaffing(t, "Carol", 5),
		mustPersonForStaffing(t, "Dave", 5),
	}}
	withoutEdo := DeriveStaffing(team, domain.NewEdoPlan(), 1)

	edo := domain.NewEdoPlan()
	edo.Grant(1, "Alice")
	withEdo := DeriveStaffing(team, edo, 1)

	totalWithout := 0
	totalWith := 0
	for _, day := range domain.WeekdayDays {
		totalWithout += withoutEdo.Get(1, day, domain.Day)*domain.Day.Arity() + withoutEdo.Get(1, day, domain.Evening)*domain.Evening.Arity()
		totalWith += withEdo.Get(1, day, domain.Day)*domain.Day.Arity() + withEdo.Get(1, day, domain.Evening)*domain.Evening.Arity()
	}
	assert.Less(t, totalWith, totalWithout)
}

func TestDeriveStaffingProducesAPlanForEveryRequestedWeek(t *testing.T) {
	team := domain.TeamInput{People: []*domain.Person{
		mustPersonForStaffing(t, "Alice", 5),
		mustPersonForStaffing(t, "Bob", 5),
	}}
	plan := DeriveStaffing(team, domain.NewEdoPlan(), 3)
	for week := 1; week <= 3; week++ {
		assert.Contains(t, plan.Slots, week)
	}
}
