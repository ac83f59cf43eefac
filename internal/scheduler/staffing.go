package scheduler

import "github.com/theatreops/rota-backend/internal/domain"

// DeriveStaffing computes the per-week per-day slot map (C2), following
// the five-step algorithm of spec §4.2: count person-days available after
// EDO, reserve a solo Admin day when the total is odd, reserve one Night
// pair per weekday, then round-robin the remainder across Day/Evening.
func DeriveStaffing(team domain.TeamInput, edoPlan *domain.EdoPlan, weeks int) *domain.StaffingPlan {
	plan := domain.NewStaffingPlan()

	for week := 1; week <= weeks; week++ {
		personDays := 0
		for _, p := range team.People {
			personDays += p.WorkdaysPerWeek()
		}
		personDays -= len(edoPlan.RecipientsInWeek(week))

		if personDays%2 != 0 {
			plan.Set(week, domain.Mon, domain.Admin, 1)
			personDays--
		}

		for _, day := range domain.WeekdayDays {
			plan.Set(week, day, domain.Night, 1)
		}
		personDays -= len(domain.WeekdayDays) * domain.Night.Arity()

		remainingPairs := personDays / 2
		if remainingPairs < 0 {
			remainingPairs = 0
		}

		type slot struct {
			day   domain.Weekday
			shift domain.Shift
		}
		rotation := make([]slot, 0, len(domain.WeekdayDays)*2)
		for _, day := range domain.WeekdayDays {
			rotation = append(rotation, slot{day, domain.Day}, slot{day, domain.Evening})
		}

		for i := 0; i < remainingPairs; i++ {
			s := rotation[i%len(rotation)]
			plan.Add(week, s.day, s.shift, 1)
		}
	}

	return plan
}
