package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theatreops/rota-backend/internal/domain"
)

func mustValidatorPerson(t *testing.T, name string, workdays int, contractor bool) *domain.Person {
	t.Helper()
	p, err := domain.NewPerson(domain.PersonParams{Name: name, WorkdaysPerWeek: workdays, IsContractor: contractor})
	require.NoError(t, err)
	return p
}

func TestValidateFlagsDuplicateAssignmentsInTheSameSlot(t *testing.T) {
	staffing := domain.NewStaffingPlan()
	staffing.Set(1, domain.Mon, domain.Day, 1)

	sched := domain.NewSchedule(1, 1)
	pos := domain.CalendarPosition{Week: 1, Day: domain.Mon}
	sched.Assign(pos, domain.Day, 0, "Alice")
	sched.Assign(pos, domain.Day, 0, "Alice")

	team := domain.TeamInput{People: []*domain.Person{mustValidatorPerson(t, "Alice", 5, false)}}
	diag := Validate(sched, team, domain.DefaultSolveConfig(), staffing)

	assert.Equal(t, uint32(1), diag.DuplicatesPerDay)
	assert.True(t, diag.IsInvalid())
}

func TestValidateCountsVacantSlotsWithoutFlaggingInvalid(t *testing.T) {
	staffing := domain.NewStaffingPlan()
	staffing.Set(1, domain.Mon, domain.Day, 1)

	sched := domain.NewSchedule(1, 1)
	pos := domain.CalendarPosition{Week: 1, Day: domain.Mon}
	sched.Assign(pos, domain.Day, 0, "Alice") // arity 2, one occupant short

	team := domain.TeamInput{People: []*domain.Person{mustValidatorPerson(t, "Alice", 5, false)}}
	diag := Validate(sched, team, domain.DefaultSolveConfig(), staffing)

	assert.Equal(t, uint32(1), diag.VacantSlots)
	assert.False(t, diag.IsInvalid())
}

func TestValidateFlagsNightThenWorkWhenRestAfterNightEnabled(t *testing.T) {
	staffing := domain.NewStaffingPlan()
	staffing.Set(1, domain.Mon, domain.Night, 1)
	staffing.Set(1, domain.Tue, domain.Day, 1)

	sched := domain.NewSchedule(1, 1)
	sched.Assign(domain.CalendarPosition{Week: 1, Day: domain.Mon}, domain.Night, 0, "Alice")
	sched.Assign(domain.CalendarPosition{Week: 1, Day: domain.Tue}, domain.Day, 0, "Alice")

	team := domain.TeamInput{People: []*domain.Person{mustValidatorPerson(t, "Alice", 5, false)}}
	cfg := domain.DefaultSolveConfig()
	diag := Validate(sched, team, cfg, staffing)
	assert.Equal(t, uint32(1), diag.NightThenWork)
	assert.True(t, diag.IsInvalid())
}

func TestValidateIgnoresNightRestWhenDisabled(t *testing.T) {
	staffing := domain.NewStaffingPlan()
	staffing.Set(1, domain.Mon, domain.Night, 1)
	staffing.Set(1, domain.Tue, domain.Day, 1)

	sched := domain.NewSchedule(1, 1)
	sched.Assign(domain.CalendarPosition{Week: 1, Day: domain.Mon}, domain.Night, 0, "Alice")
	sched.Assign(domain.CalendarPosition{Week: 1, Day: domain.Tue}, domain.Day, 0, "Alice")

	team := domain.TeamInput{People: []*domain.Person{mustValidatorPerson(t, "Alice", 5, false)}}
	cfg := domain.DefaultSolveConfig()
	cfg.RestAfterNight = false
	diag := Validate(sched, team, cfg, staffing)
	assert.Equal(t, uint32(0), diag.NightThenWork)
}

func TestValidateFlagsContractorPairs(t *testing.T) {
	staffing := domain.NewStaffingPlan()
	staffing.Set(1, domain.Mon, domain.Day, 1)

	sched := domain.NewSchedule(1, 1)
	pos := domain.CalendarPosition{Week: 1, Day: domain.Mon}
	sched.Assign(pos, domain.Day, 0, "Alice")
	sched.Assign(pos, domain.Day, 0, "Bob")

	team := domain.TeamInput{People: []*domain.Person{
		mustValidatorPerson(t, "Alice", 5, true),
		mustValidatorPerson(t, "Bob", 5, true),
	}}
	diag := Validate(sched, team, domain.DefaultSolveConfig(), staffing)
	assert.Equal(t, uint32(1), diag.ContractorPairs)
}

func TestValidateSkipsFairnessStddevWhenScopeIsOff(t *testing.T) {
	staffing := domain.NewStaffingPlan()
	staffing.Set(1, domain.Mon, domain.Night, 1)

	sched := domain.NewSchedule(1, 1)
	sched.Assign(domain.CalendarPosition{Week: 1, Day: domain.Mon}, domain.Night, 0, "Alice")

	team := domain.TeamInput{People: []*domain.Person{
		mustValidatorPerson(t, "Alice", 5, false),
		mustValidatorPerson(t, "Bob", 5, false),
	}}
	cfg := domain.DefaultSolveConfig()
	cfg.NightFairness = domain.FairnessOff
	diag := Validate(sched, team, cfg, staffing)

	assert.Empty(t, diag.PerCohortNightStddev)
}

func TestValidateScopesFairnessStddevGloballyAsOneCohort(t *testing.T) {
	staffing := domain.NewStaffingPlan()
	staffing.Set(1, domain.Mon, domain.Night, 1)

	sched := domain.NewSchedule(1, 1)
	sched.Assign(domain.CalendarPosition{Week: 1, Day: domain.Mon}, domain.Night, 0, "Alice")

	team := domain.TeamInput{People: []*domain.Person{
		mustValidatorPerson(t, "Alice", 5, false),
		mustValidatorPerson(t, "Bob", 5, false),
	}}
	cfg := domain.DefaultSolveConfig()
	cfg.NightFairness = domain.FairnessGlobal
	cfg.FairnessCohorts = domain.CohortByTeam // ignored under global scope
	diag := Validate(sched, team, cfg, staffing)

	require.Len(t, diag.PerCohortNightStddev, 1)
	assert.Equal(t, 0.5, diag.PerCohortNightStddev["all"])
}

func TestValidateScopesEveningFairnessIndependentlyOfNight(t *testing.T) {
	staffing := domain.NewStaffingPlan()
	staffing.Set(1, domain.Mon, domain.Evening, 1)

	sched := domain.NewSchedule(1, 1)
	sched.Assign(domain.CalendarPosition{Week: 1, Day: domain.Mon}, domain.Evening, 0, "Alice")

	team := domain.TeamInput{People: []*domain.Person{
		mustValidatorPerson(t, "Alice", 5, false),
		mustValidatorPerson(t, "Bob", 5, false),
	}}
	cfg := domain.DefaultSolveConfig()
	cfg.NightFairness = domain.FairnessOff
	cfg.EveningFairness = domain.FairnessGlobal
	diag := Validate(sched, team, cfg, staffing)

	assert.Empty(t, diag.PerCohortNightStddev)
	require.Len(t, diag.PerCohortEveningStddev, 1)
}

func TestHardInfeasibleIsUnaffectedByVacancyWhenImposeTargetsIsOff(t *testing.T) {
	diag := domain.NewDiagnostics()
	diag.VacantSlots = 1
	cfg := domain.DefaultSolveConfig()

	assert.False(t, hardInfeasible(diag, cfg))
}

func TestHardInfeasibleElevatesVacancyWhenImposeTargetsIsOn(t *testing.T) {
	diag := domain.NewDiagnostics()
	diag.VacantSlots = 1
	cfg := domain.DefaultSolveConfig()
	cfg.ImposeTargets = true

	assert.True(t, hardInfeasible(diag, cfg))
}

func TestHardInfeasibleStillFlagsFixedHardInvariantsRegardlessOfImposeTargets(t *testing.T) {
	diag := domain.NewDiagnostics()
	diag.DuplicatesPerDay = 1
	cfg := domain.DefaultSolveConfig()

	assert.True(t, hardInfeasible(diag, cfg))
}

func TestValidateFlagsWeeklyMissWhenUnderTarget(t *testing.T) {
	staffing := domain.NewStaffingPlan()
	sched := domain.NewSchedule(1, 1)
	team := domain.TeamInput{People: []*domain.Person{mustValidatorPerson(t, "Alice", 5, false)}}
	diag := Validate(sched, team, domain.DefaultSolveConfig(), staffing)

	assert.Equal(t, uint32(1), diag.WeeklyMisses)
	assert.Equal(t, uint32(1), diag.HorizonMisses)
}
