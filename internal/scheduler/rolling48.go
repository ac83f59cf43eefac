package scheduler

import "github.com/theatreops/rota-backend/internal/domain"

// Timeline builds the flat 7*weeks-day-length hour sequence for one
// person: weekday entries hold the shift's hours, weekend entries hold 0
// (the weekday model never assigns weekends; this representation exists
// so the rolling window can slide across them without the per-week
// modulo bug named in spec §9). Index 0 is week 1 Monday.
func Timeline(weeks int, dayHours func(week int, day domain.Weekday) float64) []float64 {
	timeline := make([]float64, 7*weeks)
	for week := 1; week <= weeks; week++ {
		base := (week - 1) * 7
		for i, d := range domain.WeekdayDays {
			timeline[base+i] = dayHours(week, d)
		}
		// indices base+5 and base+6 (Sat, Sun) stay zero.
	}
	return timeline
}

// RollingExcess slides a 7-day window once across the flat timeline and
// returns the total hours-above-48 across every window, plus the count
// of windows that exceeded 48h. The validator calls it for every
// person, and the search objective reaches it through Validate on each
// materialised candidate, so both use the same routine (P2/P7).
func RollingExcess(timeline []float64) (excess float64, violatingWindows uint32) {
	n := len(timeline)
	if n < 7 {
		return 0, 0
	}
	sum := 0.0
	for i := 0; i < 7; i++ {
		sum += timeline[i]
	}
	check := func(s float64) {
		if s > 48 {
			excess += s - 48
			violatingWindows++
		}
	}
	check(sum)
	for i := 1; i <= n-7; i++ {
		sum += timeline[i+6] - timeline[i-1]
		check(sum)
	}
	return excess, violatingWindows
}

// PersonTimeline is a convenience wrapper over a Schedule for use by both
// the attempt's soft-cost evaluation and the validator.
func PersonTimeline(sched *domain.Schedule, person string, weeks int) []float64 {
	return Timeline(weeks, func(week int, day domain.Weekday) float64 {
		pos := domain.CalendarPosition{Week: week, Day: day}
		return sched.ShiftOf(person, pos).Hours()
	})
}
