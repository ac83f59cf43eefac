package scheduler

import (
	"github.com/theatreops/rota-backend/internal/domain"
)

// Validate independently re-checks a schedule, never trusting the
// bookkeeping an attempt accumulated while building it. It counts
// duplicates, vacancies, night-then-work, evening-to-day, weekly and
// horizon workday misses, rolling-48h windows, contractor pairs and the
// per-cohort fairness stddev. It does not check a recipient's fixed EDO
// day, the per-person night cap, the consecutive-night limit or the
// weekly workday upper bound; only the builder's gates enforce those,
// during construction. The same Diagnostics this produces is what Score consumes, so the
// search's running soft cost and the final reported score are the same
// computation applied to the same facts.
func Validate(sched *domain.Schedule, team domain.TeamInput, config domain.SolveConfig, staffing *domain.StaffingPlan) *domain.Diagnostics {
	diag := domain.NewDiagnostics()

	checkDuplicatesAndVacancy(sched, staffing, diag)
	checkNightRest(sched, team, config, diag)
	checkEveningToDay(sched, team, diag)
	checkWeeklyAndHorizonMisses(sched, team, config, diag)
	checkRolling48h(sched, team, diag)
	checkContractorPairs(sched, team, diag)
	checkFairnessStddev(sched, team, config, diag)

	return diag
}

func checkDuplicatesAndVacancy(sched *domain.Schedule, staffing *domain.StaffingPlan, diag *domain.Diagnostics) {
	for week, byDay := range staffing.Slots {
		for day, byShift := range byDay {
			pos := domain.CalendarPosition{Week: week, Day: day}
			seen := make(map[string]int)
			for _, shift := range domain.AllShifts {
				count, ok := byShift[shift]
				if !ok || count == 0 {
					continue
				}
				arity := shift.Arity()
				for idx := 0; idx < count; idx++ {
					occ := sched.SlotOccupants(pos, shift, idx)
					for _, name := range occ {
						seen[name]++
					}
					if len(occ) < arity {
						diag.VacantSlots += uint32(arity - len(occ))
						diag.Unfilled = append(diag.Unfilled, domain.UnfilledSlot{
							Week: week, Day: day, Shift: shift, SlotIndex: idx,
						})
					}
				}
			}
			for _, n := range seen {
				if n > 1 {
					diag.DuplicatesPerDay += uint32(n - 1)
				}
			}
		}
	}
}

func checkNightRest(sched *domain.Schedule, team domain.TeamInput, config domain.SolveConfig, diag *domain.Diagnostics) {
	if !config.RestAfterNight {
		return
	}
	for _, p := range team.People {
		for week := 1; week <= sched.Weeks; week++ {
			for i := 0; i+1 < len(domain.WeekdayDays); i++ {
				day, next := domain.WeekdayDays[i], domain.WeekdayDays[i+1]
				posDay := domain.CalendarPosition{Week: week, Day: day}
				posNext := domain.CalendarPosition{Week: week, Day: next}
				if sched.ShiftOf(p.Name(), posDay) == domain.Night && sched.ShiftOf(p.Name(), posNext).IsWorking() {
					diag.NightThenWork++
				}
			}
		}
	}
}

func checkEveningToDay(sched *domain.Schedule, team domain.TeamInput, diag *domain.Diagnostics) {
	for _, p := range team.People {
		for week := 1; week <= sched.Weeks; week++ {
			for i := 0; i+1 < len(domain.WeekdayDays); i++ {
				day, next := domain.WeekdayDays[i], domain.WeekdayDays[i+1]
				posDay := domain.CalendarPosition{Week: week, Day: day}
				posNext := domain.CalendarPosition{Week: week, Day: next}
				if sched.ShiftOf(p.Name(), posDay) == domain.Evening && sched.ShiftOf(p.Name(), posNext) == domain.Day {
					diag.EveningToDay++
				}
			}
		}
	}
}

func checkWeeklyAndHorizonMisses(sched *domain.Schedule, team domain.TeamInput, config domain.SolveConfig, diag *domain.Diagnostics) {
	for _, p := range team.People {
		horizonTarget, horizonActual := 0, 0
		for week := 1; week <= sched.Weeks; week++ {
			target := p.WorkdaysPerWeek()
			if config.EdoEnabled && sched.EdoPlan != nil && sched.EdoPlan.IsRecipient(week, p.Name()) {
				target--
				if target < 0 {
					target = 0
				}
			}
			actual := 0
			for _, day := range domain.WeekdayDays {
				if sched.ShiftOf(p.Name(), domain.CalendarPosition{Week: week, Day: day}).IsWorking() {
					actual++
				}
			}
			if actual < target {
				diag.WeeklyMisses++
			}
			horizonTarget += target
			horizonActual += actual
		}
		if horizonActual < horizonTarget {
			diag.HorizonMisses++
		}
	}
}

func checkRolling48h(sched *domain.Schedule, team domain.TeamInput, diag *domain.Diagnostics) {
	for _, p := range team.People {
		timeline := PersonTimeline(sched, p.Name(), sched.Weeks)
		_, violating := RollingExcess(timeline)
		diag.Rolling48hViolations += violating
	}
}

func checkContractorPairs(sched *domain.Schedule, team domain.TeamInput, diag *domain.Diagnostics) {
	byName := team.ByName()
	for pos, byShift := range sched.BySlot {
		for shift, bySlot := range byShift {
			if !shift.IsPairShift() {
				continue
			}
			for _, occ := range bySlot {
				if len(occ) != 2 {
					continue
				}
				a, b := byName[occ[0]], byName[occ[1]]
				if a != nil && b != nil && a.IsContractor() && b.IsContractor() {
					diag.ContractorPairs++
				}
			}
		}
		_ = pos
	}
}

func checkFairnessStddev(sched *domain.Schedule, team domain.TeamInput, config domain.SolveConfig, diag *domain.Diagnostics) {
	nightCounts := make(map[string]float64)
	eveningCounts := make(map[string]float64)
	for _, p := range team.People {
		for week := 1; week <= sched.Weeks; week++ {
			for _, day := range domain.WeekdayDays {
				switch sched.ShiftOf(p.Name(), domain.CalendarPosition{Week: week, Day: day}) {
				case domain.Night:
					nightCounts[p.Name()]++
				case domain.Evening:
					eveningCounts[p.Name()]++
				}
			}
		}
	}

	nightGroups := groupsForScope(team, config.NightFairness, config.FairnessCohorts)
	for _, key := range cohortKeysSorted(nightGroups) {
		diag.PerCohortNightStddev[key] = stddev(nightCounts, nightGroups[key])
	}

	eveningGroups := groupsForScope(team, config.EveningFairness, config.FairnessCohorts)
	for _, key := range cohortKeysSorted(eveningGroups) {
		diag.PerCohortEveningStddev[key] = stddev(eveningCounts, eveningGroups[key])
	}
}

// hardInfeasible reports whether diag must be reported as an infeasible
// result: the fixed hard invariants always count, and — when
// impose_targets is set — so does any coverage deficit, elevating
// vacant_slots from a soft cost to a hard failure (§6.1).
func hardInfeasible(diag *domain.Diagnostics, config domain.SolveConfig) bool {
	return diag.IsInvalid() || (config.ImposeTargets && diag.VacantSlots > 0)
}
