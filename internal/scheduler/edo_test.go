package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theatreops/rota-backend/internal/domain"
)

func mustEligiblePerson(t *testing.T, name string, workdays int, fixedDay *domain.Weekday) *domain.Person {
	t.Helper()
	p, err := domain.NewPerson(domain.PersonParams{
		Name: name, WorkdaysPerWeek: workdays, EdoEligible: true, EdoFixedDay: fixedDay,
	})
	require.NoError(t, err)
	return p
}

func TestPlanEDOSkipsIneligiblePeople(t *testing.T) {
	ineligible, err := domain.NewPerson(domain.PersonParams{Name: "Nora", WorkdaysPerWeek: 5, EdoEligible: false})
	require.NoError(t, err)
	team := domain.TeamInput{People: []*domain.Person{ineligible}}

	plan := PlanEDO(team, 4, nil)
	for week := 1; week <= 4; week++ {
		assert.False(t, plan.IsRecipient(week, "Nora"))
	}
}

func TestPlanEDOAlternatesHalvesByWeekParity(t *testing.T) {
	team := domain.TeamInput{People: []*domain.Person{
		mustEligiblePerson(t, "Alice", 5, nil),
		mustEligiblePerson(t, "Bob", 5, nil),
	}}
	plan := PlanEDO(team, 4, nil)

	// mid = (2+1)/2 = 1, so halfA = [Alice], halfB = [Bob] (sorted by name).
	assert.True(t, plan.IsRecipient(1, "Alice"))
	assert.False(t, plan.IsRecipient(1, "Bob"))
	assert.False(t, plan.IsRecipient(2, "Alice"))
	assert.True(t, plan.IsRecipient(2, "Bob"))
	assert.True(t, plan.IsRecipient(3, "Alice"))
	assert.True(t, plan.IsRecipient(4, "Bob"))
}

func TestPlanEDOPartitionsSeparatelyPerWorkdaysCohort(t *testing.T) {
	team := domain.TeamInput{People: []*domain.Person{
		mustEligiblePerson(t, "Alice", 5, nil),
		mustEligiblePerson(t, "Bob", 4, nil),
	}}
	plan := PlanEDO(team, 2, nil)

	// Each is alone in its own cohort, so mid = 1 and both fall in "halfA":
	// both should receive EDO on week 1.
	assert.True(t, plan.IsRecipient(1, "Alice"))
	assert.True(t, plan.IsRecipient(1, "Bob"))
}

func TestPlanEDOPrefersPersonFixedDayOverGlobalDefault(t *testing.T) {
	fri := domain.Fri
	wed := domain.Wed
	team := domain.TeamInput{People: []*domain.Person{
		mustEligiblePerson(t, "Alice", 5, &fri),
	}}
	plan := PlanEDO(team, 1, &wed)

	require.NotNil(t, plan.FixedDay["Alice"])
	assert.Equal(t, domain.Fri, *plan.FixedDay["Alice"])
}

func TestPlanEDOFallsBackToGlobalFixedDayWhenPersonHasNone(t *testing.T) {
	wed := domain.Wed
	team := domain.TeamInput{People: []*domain.Person{
		mustEligiblePerson(t, "Alice", 5, nil),
	}}
	plan := PlanEDO(team, 1, &wed)

	require.NotNil(t, plan.FixedDay["Alice"])
	assert.Equal(t, domain.Wed, *plan.FixedDay["Alice"])
}
