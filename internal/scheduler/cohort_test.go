package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theatreops/rota-backend/internal/domain"
)

func mustCohortPerson(t *testing.T, name string, workdays int, team string) *domain.Person {
	t.Helper()
	p, err := domain.NewPerson(domain.PersonParams{Name: name, WorkdaysPerWeek: workdays, Team: team})
	require.NoError(t, err)
	return p
}

func TestGroupsForScopeOffYieldsNoGroups(t *testing.T) {
	team := domain.TeamInput{People: []*domain.Person{
		mustCohortPerson(t, "Alice", 5, "blue"),
		mustCohortPerson(t, "Bob", 4, "red"),
	}}
	assert.Empty(t, groupsForScope(team, domain.FairnessOff, domain.CohortByTeam))
}

func TestGroupsForScopeGlobalCollapsesEveryoneIntoOneGroup(t *testing.T) {
	team := domain.TeamInput{People: []*domain.Person{
		mustCohortPerson(t, "Alice", 5, "blue"),
		mustCohortPerson(t, "Bob", 4, "red"),
	}}
	groups := groupsForScope(team, domain.FairnessGlobal, domain.CohortByTeam)
	require.Len(t, groups, 1)
	assert.Len(t, groups["all"], 2)
}

func TestGroupsForScopeCohortDefersToConfiguredCohorts(t *testing.T) {
	team := domain.TeamInput{People: []*domain.Person{
		mustCohortPerson(t, "Alice", 5, "blue"),
		mustCohortPerson(t, "Bob", 4, "red"),
	}}
	groups := groupsForScope(team, domain.FairnessScopeCohort, domain.CohortByTeam)
	require.Len(t, groups, 2)
	assert.Equal(t, "Alice", groups["blue"][0].Name())
	assert.Equal(t, "Bob", groups["red"][0].Name())
}

func TestNightMetricValuesUsesRawCountsInCountMode(t *testing.T) {
	sched := domain.NewSchedule(1, 1)
	sched.Assign(domain.CalendarPosition{Week: 1, Day: domain.Mon}, domain.Night, 0, "Alice")

	team := domain.TeamInput{People: []*domain.Person{mustCohortPerson(t, "Alice", 5, "blue")}}
	cfg := domain.DefaultSolveConfig()

	values := nightMetricValues(sched, team, cfg)
	assert.Equal(t, 1.0, values["Alice"])
}

func TestNightMetricValuesScalesToIntegerTenthsInRateMode(t *testing.T) {
	sched := domain.NewSchedule(1, 1)
	sched.Assign(domain.CalendarPosition{Week: 1, Day: domain.Mon}, domain.Night, 0, "Alice")
	sched.Assign(domain.CalendarPosition{Week: 1, Day: domain.Tue}, domain.Night, 0, "Alice")

	team := domain.TeamInput{People: []*domain.Person{mustCohortPerson(t, "Alice", 5, "blue")}}
	cfg := domain.DefaultSolveConfig()
	cfg.NightFairnessMode = domain.NightFairnessRate

	// workday target = 5 (one week, no EDO plan attached), rate = 2/5 = 0.4
	values := nightMetricValues(sched, team, cfg)
	assert.Equal(t, 4.0, values["Alice"])
}

func TestNightSpreadTermIsZeroWhenScopeIsOff(t *testing.T) {
	sched := domain.NewSchedule(1, 1)
	sched.Assign(domain.CalendarPosition{Week: 1, Day: domain.Mon}, domain.Night, 0, "Alice")

	team := domain.TeamInput{People: []*domain.Person{
		mustCohortPerson(t, "Alice", 5, "blue"),
		mustCohortPerson(t, "Bob", 5, "blue"),
	}}
	cfg := domain.DefaultSolveConfig()
	cfg.NightFairness = domain.FairnessOff

	assert.Zero(t, nightSpreadTerm(sched, team, cfg))
}

func TestNightSpreadTermMatchesMaxMinUnderGlobalScope(t *testing.T) {
	sched := domain.NewSchedule(1, 1)
	sched.Assign(domain.CalendarPosition{Week: 1, Day: domain.Mon}, domain.Night, 0, "Alice")
	sched.Assign(domain.CalendarPosition{Week: 1, Day: domain.Tue}, domain.Night, 0, "Alice")

	team := domain.TeamInput{People: []*domain.Person{
		mustCohortPerson(t, "Alice", 5, "blue"),
		mustCohortPerson(t, "Bob", 5, "blue"),
	}}
	cfg := domain.DefaultSolveConfig()
	cfg.NightFairness = domain.FairnessGlobal

	assert.Equal(t, 2.0, nightSpreadTerm(sched, team, cfg)) // Alice=2, Bob=0
}

func TestNightShareWeightsOffIsUniformAcrossCohorts(t *testing.T) {
	groups := map[string][]*domain.Person{
		"blue": {mustCohortPerson(t, "Alice", 5, "blue")},
		"red":  {mustCohortPerson(t, "Bob", 1, "red"), mustCohortPerson(t, "Carol", 1, "red")},
	}
	weights := nightShareWeights(groups, domain.InterTeamShareOff)
	assert.Equal(t, 0.5, weights["blue"])
	assert.Equal(t, 0.5, weights["red"])
}

func TestNightShareWeightsGlobalUsesHeadcountShare(t *testing.T) {
	groups := map[string][]*domain.Person{
		"blue": {mustCohortPerson(t, "Alice", 5, "blue")},
		"red":  {mustCohortPerson(t, "Bob", 1, "red"), mustCohortPerson(t, "Carol", 1, "red")},
	}
	weights := nightShareWeights(groups, domain.InterTeamShareGlobal)
	assert.InDelta(t, 1.0/3.0, weights["blue"], 1e-9)
	assert.InDelta(t, 2.0/3.0, weights["red"], 1e-9)
}

func TestNightShareWeightsProportionalUsesWorkdaysShare(t *testing.T) {
	groups := map[string][]*domain.Person{
		"blue": {mustCohortPerson(t, "Alice", 4, "blue")},
		"red":  {mustCohortPerson(t, "Bob", 1, "red")},
	}
	weights := nightShareWeights(groups, domain.InterTeamShareProportional)
	assert.InDelta(t, 4.0/5.0, weights["blue"], 1e-9)
	assert.InDelta(t, 1.0/5.0, weights["red"], 1e-9)
}

func TestInterTeamNightShareTermIsZeroWhenModeIsOff(t *testing.T) {
	sched := domain.NewSchedule(1, 1)
	sched.Assign(domain.CalendarPosition{Week: 1, Day: domain.Mon}, domain.Night, 0, "Alice")

	team := domain.TeamInput{People: []*domain.Person{
		mustCohortPerson(t, "Alice", 5, "blue"),
		mustCohortPerson(t, "Bob", 5, "red"),
	}}
	cfg := domain.DefaultSolveConfig()
	cfg.FairnessCohorts = domain.CohortByTeam
	cfg.InterTeamNightShare = domain.InterTeamShareOff

	assert.Zero(t, interTeamNightShareTerm(sched, team, cfg))
}

func TestInterTeamNightShareTermPenalisesUsageDriftFromQuota(t *testing.T) {
	sched := domain.NewSchedule(1, 1)
	// blue takes every night slot this week; red takes none, despite an
	// equal (proportional) workdays_per_week share of the quota.
	sched.Assign(domain.CalendarPosition{Week: 1, Day: domain.Mon}, domain.Night, 0, "Alice")
	sched.Assign(domain.CalendarPosition{Week: 1, Day: domain.Tue}, domain.Night, 0, "Alice")

	team := domain.TeamInput{People: []*domain.Person{
		mustCohortPerson(t, "Alice", 5, "blue"),
		mustCohortPerson(t, "Bob", 5, "red"),
	}}
	cfg := domain.DefaultSolveConfig()
	cfg.FairnessCohorts = domain.CohortByTeam
	cfg.InterTeamNightShare = domain.InterTeamShareProportional

	// equal workdays -> equal 0.5/0.5 quota of 2 slots = 1 each; actual is
	// 2/0, so |2-1| + |0-1| = 2.
	assert.Equal(t, 2.0, interTeamNightShareTerm(sched, team, cfg))
}
