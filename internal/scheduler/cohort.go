package scheduler

import (
	"math"
	"sort"

	"github.com/theatreops/rota-backend/internal/domain"
)

// groupByCohort buckets people into cohorts under the configured mode.
func groupByCohort(team domain.TeamInput, mode domain.FairnessCohort) map[string][]*domain.Person {
	groups := make(map[string][]*domain.Person)
	for _, p := range team.People {
		key := p.CohortKey(mode)
		groups[key] = append(groups[key], p)
	}
	return groups
}

// spread returns max-min of the given per-person counts.
func spread(counts map[string]float64, members []*domain.Person) float64 {
	if len(members) == 0 {
		return 0
	}
	min, max := math.MaxFloat64, -math.MaxFloat64
	for _, p := range members {
		v := counts[p.Name()]
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return max - min
}

// stddev of the given per-person counts, used by the validator's
// Diagnostics (§4.5) rather than the raw spread used in the objective.
func stddev(counts map[string]float64, members []*domain.Person) float64 {
	if len(members) == 0 {
		return 0
	}
	mean := 0.0
	for _, p := range members {
		mean += counts[p.Name()]
	}
	mean /= float64(len(members))

	variance := 0.0
	for _, p := range members {
		d := counts[p.Name()] - mean
		variance += d * d
	}
	variance /= float64(len(members))
	return math.Sqrt(variance)
}

// cohortKeysSorted returns the cohort keys of groups in sorted order, so
// both the objective's spread terms and Diagnostics' per-cohort stddev
// walk the cohorts deterministically.
func cohortKeysSorted(groups map[string][]*domain.Person) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// groupsForScope buckets people for a fairness term under the given
// scope (§6.1): off drops the term (no groups to sum over), global
// folds everyone into a single group, and cohort defers to the
// configured cohort split.
func groupsForScope(team domain.TeamInput, scope domain.FairnessScope, cohorts domain.FairnessCohort) map[string][]*domain.Person {
	switch scope {
	case domain.FairnessOff:
		return nil
	case domain.FairnessGlobal:
		return map[string][]*domain.Person{"all": team.People}
	default:
		return groupByCohort(team, cohorts)
	}
}

// workdayTargetTotal is the horizon-wide workday target for person, net
// of EDO days off — the reference point rate-mode night fairness and
// rebalance's workday_total metric both use.
func workdayTargetTotal(sched *domain.Schedule, config domain.SolveConfig, person *domain.Person) float64 {
	target := 0.0
	for week := 1; week <= sched.Weeks; week++ {
		t := float64(person.WorkdaysPerWeek())
		if config.EdoEnabled && sched.EdoPlan != nil && sched.EdoPlan.IsRecipient(week, person.Name()) {
			t--
			if t < 0 {
				t = 0
			}
		}
		target += t
	}
	return target
}

// nightMetricValues returns each person's night fairness metric under
// the configured mode: raw night counts, or (when night_fairness_mode
// is rate) the night-count-to-workday-target ratio scaled to integer
// tenths (§4.4 "Proportional night fairness").
func nightMetricValues(sched *domain.Schedule, team domain.TeamInput, config domain.SolveConfig) map[string]float64 {
	values := make(map[string]float64, len(team.People))
	for _, p := range team.People {
		count := metricValue(sched, p.Name(), "night_count")
		if config.NightFairnessMode != domain.NightFairnessRate {
			values[p.Name()] = count
			continue
		}
		target := workdayTargetTotal(sched, config, p)
		rate := 0.0
		if target > 0 {
			rate = count / target
		}
		values[p.Name()] = math.Round(rate * 10)
	}
	return values
}

// nightSpreadTerm is the night_spread objective term (§4.4): spread
// summed across whatever cohorts night_fairness selects, over the
// count or rate metric night_fairness_mode selects.
func nightSpreadTerm(sched *domain.Schedule, team domain.TeamInput, config domain.SolveConfig) float64 {
	groups := groupsForScope(team, config.NightFairness, config.FairnessCohorts)
	if len(groups) == 0 {
		return 0
	}
	values := nightMetricValues(sched, team, config)
	total := 0.0
	for _, key := range cohortKeysSorted(groups) {
		total += spread(values, groups[key])
	}
	return total
}

// eveningSpreadTerm is the evening_spread objective term (§4.4), summed
// across whatever cohorts evening_fairness selects.
func eveningSpreadTerm(sched *domain.Schedule, team domain.TeamInput, config domain.SolveConfig) float64 {
	groups := groupsForScope(team, config.EveningFairness, config.FairnessCohorts)
	if len(groups) == 0 {
		return 0
	}
	values := make(map[string]float64, len(team.People))
	for _, p := range team.People {
		values[p.Name()] = metricValue(sched, p.Name(), "evening_count")
	}
	total := 0.0
	for _, key := range cohortKeysSorted(groups) {
		total += spread(values, groups[key])
	}
	return total
}

// nightShareWeights assigns each fairness cohort its target share of a
// week's night slots under the configured mode: off weighs every
// cohort equally, global scales by headcount, and proportional (the
// default) scales by aggregate workdays_per_week. Ported from
// night_share_weights in the original's legacy greedy solver, the only
// place inter_team_night_share was ever implemented.
func nightShareWeights(groups map[string][]*domain.Person, mode domain.InterTeamNightShare) map[string]float64 {
	weights := make(map[string]float64, len(groups))
	if len(groups) == 0 {
		return weights
	}
	if mode == domain.InterTeamShareOff {
		for key := range groups {
			weights[key] = 1.0 / float64(len(groups))
		}
		return weights
	}

	totals := make(map[string]float64, len(groups))
	grand := 0.0
	for key, members := range groups {
		for _, p := range members {
			share := float64(p.WorkdaysPerWeek())
			if mode == domain.InterTeamShareGlobal {
				share = 1
			}
			totals[key] += share
			grand += share
		}
	}
	if grand == 0 {
		return weights
	}
	for key, total := range totals {
		weights[key] = total / grand
	}
	return weights
}

// interTeamNightShareTerm penalises a cohort's aggregate weekly night
// slot usage drifting from its target share of that week's night
// slots (legacy_v29.py's team_share_gap), keyed on fairness_cohorts and
// scaled by inter_team_night_share.
func interTeamNightShareTerm(sched *domain.Schedule, team domain.TeamInput, config domain.SolveConfig) float64 {
	if config.InterTeamNightShare == domain.InterTeamShareOff {
		return 0
	}
	groups := groupByCohort(team, config.FairnessCohorts)
	if len(groups) <= 1 {
		return 0
	}
	weights := nightShareWeights(groups, config.InterTeamNightShare)

	total := 0.0
	for week := 1; week <= sched.Weeks; week++ {
		weekSlots := 0.0
		used := make(map[string]float64, len(groups))
		for key, members := range groups {
			for _, p := range members {
				for _, day := range domain.WeekdayDays {
					if sched.ShiftOf(p.Name(), domain.CalendarPosition{Week: week, Day: day}) == domain.Night {
						used[key]++
						weekSlots++
					}
				}
			}
		}
		for key := range groups {
			gap := used[key] - weights[key]*weekSlots
			if gap < 0 {
				gap = -gap
			}
			total += gap
		}
	}
	return total
}
