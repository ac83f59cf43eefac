package scheduler

import "github.com/theatreops/rota-backend/internal/domain"

// Score weights match the soft terms of the attempt's internal
// objective so the two agree up to the pair-channelling constant (the
// objective tracks a few terms, such as contractor pairing, that Score
// itself leaves out; extraObjectiveTerms adds them to both).
const (
	weightVacant        = 10.0
	weightDuplicates    = 5.0
	weightNightWork     = 3.0
	weightEveningToDay  = 1.0
	weightWeeklyMiss    = 2.0
	weightHorizonMiss   = 2.0
	weightRolling48h    = 100.0
	weightNightStddev   = 10.0
	weightEveningStddev = 3.0
)

// Score reduces a Diagnostics record to the single weighted-sum figure
// used to rank candidate schedules and attempts. Lower is better.
func Score(diag *domain.Diagnostics) float64 {
	score := weightVacant*float64(diag.VacantSlots) +
		weightDuplicates*float64(diag.DuplicatesPerDay) +
		weightNightWork*float64(diag.NightThenWork) +
		weightEveningToDay*float64(diag.EveningToDay) +
		weightWeeklyMiss*float64(diag.WeeklyMisses) +
		weightHorizonMiss*float64(diag.HorizonMisses) +
		weightRolling48h*float64(diag.Rolling48hViolations)

	for _, v := range diag.PerCohortNightStddev {
		score += weightNightStddev * v
	}
	for _, v := range diag.PerCohortEveningStddev {
		score += weightEveningStddev * v
	}
	return score
}
