package scheduler

import (
	"sort"

	"github.com/theatreops/rota-backend/internal/domain"
)

// Rebalance runs the greedy swap local search of the post-solve
// rebalancing pass: each step finds the person furthest above their
// fair share of some metric and the person furthest below it, looks
// for one slot where swapping them keeps every hard constraint intact,
// and accepts the swap only if it strictly lowers the score. It stops
// after maxSteps iterations or as soon as a full sweep finds no
// improving swap. post_rebalance_steps=0 disables it entirely.
func Rebalance(sched *domain.Schedule, team domain.TeamInput, config domain.SolveConfig, staffing *domain.StaffingPlan, maxSteps int) *domain.Schedule {
	if maxSteps <= 0 {
		return sched
	}

	current := sched
	currentDiag := Validate(current, team, config, staffing)
	currentScore := Score(currentDiag) + extraObjectiveTerms(current, team, config, currentDiag)

	metrics := []string{"night_count", "evening_count", "workday_total"}
	for step := 0; step < maxSteps; step++ {
		improvedThisSweep := false

		for _, metric := range metrics {
			pName, qName, ok := extremeGapPair(current, team, config, metric)
			if !ok {
				continue
			}

			pos, shift, slotIndex, ok := findSwappableSlot(current, team, config, staffing, pName, qName)
			if !ok {
				continue
			}

			trial := current.Clone()
			trial.Unassign(pos, shift, slotIndex, pName)
			trial.Assign(pos, shift, slotIndex, qName)

			trialDiag := Validate(trial, team, config, staffing)
			if hardInfeasible(trialDiag, config) || trialDiag.VacantSlots > currentDiag.VacantSlots {
				continue
			}
			trialScore := Score(trialDiag) + extraObjectiveTerms(trial, team, config, trialDiag)
			if trialScore < currentScore {
				current = trial
				currentDiag = trialDiag
				currentScore = trialScore
				improvedThisSweep = true
			}
		}

		if !improvedThisSweep {
			break
		}
	}

	return current
}

// metricValue returns person's actual count for the named metric,
// accumulated over the full horizon.
func metricValue(sched *domain.Schedule, person string, metric string) float64 {
	value := 0.0
	for week := 1; week <= sched.Weeks; week++ {
		for _, day := range domain.WeekdayDays {
			shift := sched.ShiftOf(person, domain.CalendarPosition{Week: week, Day: day})
			switch metric {
			case "night_count":
				if shift == domain.Night {
					value++
				}
			case "evening_count":
				if shift == domain.Evening {
					value++
				}
			case "workday_total":
				if shift.IsWorking() {
					value++
				}
			}
		}
	}
	return value
}

// metricTarget returns person's fair share for the named metric:
// workday_total has an explicit per-person target (workdays_per_week,
// net of EDO); night_count and evening_count have none named in the
// staffing model, so their target is the mean actual value across the
// person's fairness cohort — the same reference point the spread terms
// already use.
func metricTarget(sched *domain.Schedule, team domain.TeamInput, config domain.SolveConfig, cohortMeans map[string]float64, person *domain.Person, metric string) float64 {
	if metric == "workday_total" {
		return workdayTargetTotal(sched, config, person)
	}
	return cohortMeans[person.CohortKey(config.FairnessCohorts)]
}

func cohortMeanValues(sched *domain.Schedule, team domain.TeamInput, config domain.SolveConfig, metric string) map[string]float64 {
	groups := groupByCohort(team, config.FairnessCohorts)
	means := make(map[string]float64, len(groups))
	for key, members := range groups {
		sum := 0.0
		for _, p := range members {
			sum += metricValue(sched, p.Name(), metric)
		}
		if len(members) > 0 {
			means[key] = sum / float64(len(members))
		}
	}
	return means
}

// extremeGapPair returns the person furthest above their fair share and
// the person furthest below it, for the given metric.
func extremeGapPair(sched *domain.Schedule, team domain.TeamInput, config domain.SolveConfig, metric string) (over, under string, ok bool) {
	cohortMeans := cohortMeanValues(sched, team, config, metric)

	names := make([]string, 0, len(team.People))
	byName := team.ByName()
	for _, p := range team.People {
		names = append(names, p.Name())
	}
	sort.Strings(names)

	maxGap, minGap := -1e18, 1e18
	for _, name := range names {
		p := byName[name]
		gap := metricValue(sched, name, metric) - metricTarget(sched, team, config, cohortMeans, p, metric)
		if gap > maxGap {
			maxGap, over = gap, name
		}
		if gap < minGap {
			minGap, under = gap, name
		}
	}
	if over == "" || under == "" || over == under || maxGap <= 0 || minGap >= 0 {
		return "", "", false
	}
	return over, under, true
}

// findSwappableSlot finds one slot currently held by pName where
// swapping in qName keeps every hard constraint intact, by replaying
// the whole schedule through a modelBuilder with that one placement
// excluded and checking eligibility for qName in its place.
func findSwappableSlot(sched *domain.Schedule, team domain.TeamInput, config domain.SolveConfig, staffing *domain.StaffingPlan, pName, qName string) (pos domain.CalendarPosition, shift domain.Shift, slotIndex int, ok bool) {
	positions := make([]domain.CalendarPosition, 0, len(sched.ByPerson[pName]))
	for p := range sched.ByPerson[pName] {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Week != positions[j].Week {
			return positions[i].Week < positions[j].Week
		}
		return positions[i].Day < positions[j].Day
	})

	for _, candPos := range positions {
		candShift, candSlot, found := sched.FindSlot(candPos, pName)
		if !found {
			continue
		}
		b := builderExcluding(sched, team, config, staffing, candPos, candShift, candSlot, pName)
		if b.eligible(qName, candPos.Week, candPos.Day, candShift) {
			return candPos, candShift, candSlot, true
		}
	}
	return domain.CalendarPosition{}, "", 0, false
}

// builderExcluding replays every assignment in the schedule through a
// fresh modelBuilder, skipping the one (pos, shift, slotIndex, person)
// placement named — representing what the builder's state would be had
// that placement never happened.
func builderExcluding(sched *domain.Schedule, team domain.TeamInput, config domain.SolveConfig, staffing *domain.StaffingPlan, excludePos domain.CalendarPosition, excludeShift domain.Shift, excludeSlot int, excludePerson string) *modelBuilder {
	b := newModelBuilder(team, config, sched.EdoPlan)
	order := buildSlotOrder(staffing, sched.Weeks)
	for _, key := range order {
		pos := domain.CalendarPosition{Week: key.Week, Day: key.Day}
		for _, person := range sched.SlotOccupants(pos, key.Shift, key.SlotIndex) {
			if pos == excludePos && key.Shift == excludeShift && key.SlotIndex == excludeSlot && person == excludePerson {
				continue
			}
			b.commit(person, key.Week, key.Day, key.Shift)
		}
	}
	return b
}
