package scheduler

import (
	"sort"

	"github.com/theatreops/rota-backend/internal/domain"
)

// PlanEDO partitions EDO-eligible people into two halves per
// workdays-cohort and alternates which half receives EDO by week parity,
// so each eligible person is granted EDO every other week (§4.3, P6).
func PlanEDO(team domain.TeamInput, weeks int, fixedDayGlobal *domain.Weekday) *domain.EdoPlan {
	plan := domain.NewEdoPlan()

	byCohort := make(map[int][]*domain.Person)
	for _, p := range team.People {
		if !p.EdoEligible() {
			continue
		}
		byCohort[p.WorkdaysPerWeek()] = append(byCohort[p.WorkdaysPerWeek()], p)

		if p.EdoFixedDay() != nil {
			d := *p.EdoFixedDay()
			plan.FixedDay[p.Name()] = &d
		} else if fixedDayGlobal != nil {
			d := *fixedDayGlobal
			plan.FixedDay[p.Name()] = &d
		}
	}

	cohortKeys := make([]int, 0, len(byCohort))
	for k := range byCohort {
		cohortKeys = append(cohortKeys, k)
	}
	sort.Ints(cohortKeys)

	for _, key := range cohortKeys {
		people := byCohort[key]
		sort.Slice(people, func(i, j int) bool { return people[i].Name() < people[j].Name() })

		mid := (len(people) + 1) / 2
		halfA := people[:mid]
		halfB := people[mid:]

		for week := 1; week <= weeks; week++ {
			active := halfA
			if week%2 == 0 {
				active = halfB
			}
			for _, p := range active {
				plan.Grant(week, p.Name())
			}
		}
	}

	return plan
}
