package scheduler

import (
	"context"
	"math/rand"
	"sort"

	"github.com/theatreops/rota-backend/internal/domain"
)

// WeekendDiagnostics is the weekend planner's analogue of Diagnostics:
// its hard invariants and soft terms don't match the weekday model's
// (there is no workdays_per_week or EDO on a weekend), so it is its own
// small record rather than a half-populated domain.Diagnostics.
type WeekendDiagnostics struct {
	VacantSlots     uint32
	HourCapExceeded uint32
	SaturdaySpread  float64
	SundaySpread    float64
	ShiftKindSpread float64
	PairRepetitions uint32
}

// WeekendResult is SolveWeekend's output: the same Schedule shape used
// by the weekday engine, restricted to Sat/Sun positions.
type WeekendResult struct {
	Schedule    *domain.Schedule
	Diagnostics *WeekendDiagnostics
	Cost        float64
	SeedUsed    uint64
}

// weekendCost combines the weekend planner's soft terms into a single
// ranking figure: heavy weight on any hour-cap overrun (which should
// never occur given construction respects it, but is checked anyway),
// moderate weight on the two fairness spreads, light weight on
// pair-repetition.
func weekendCost(d *WeekendDiagnostics) float64 {
	return 10*float64(d.VacantSlots) +
		1000*float64(d.HourCapExceeded) +
		5*d.SaturdaySpread +
		5*d.SundaySpread +
		5*d.ShiftKindSpread +
		2*float64(d.PairRepetitions)
}

// SolveWeekend runs the independent Sat/Sun 12h/24h pairing model,
// decoupled entirely from the weekday schedule: a Friday night on the
// weekday side has no bearing on Saturday eligibility here.
func SolveWeekend(ctx context.Context, team domain.TeamInput, config domain.SolveConfig) WeekendResult {
	eligible := make([]*domain.Person, 0, len(team.People))
	for _, p := range team.People {
		if p.AvailableWeekends() {
			eligible = append(eligible, p)
		}
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].Name() < eligible[j].Name() })

	var best *domain.Schedule
	var bestDiag *WeekendDiagnostics
	bestCost := 1e18
	bestSeed := config.Seed

	tries := config.Tries
	if tries < 1 {
		tries = 1
	}
tryLoop:
	for i := 0; i < tries; i++ {
		select {
		case <-ctx.Done():
			break tryLoop
		default:
		}
		seed := config.Seed + uint64(i)
		sched := constructWeekend(eligible, config.Weeks, seed)
		sched = improveWeekend(sched, eligible, config.Weeks)
		diag := validateWeekend(sched, eligible, config.Weeks)
		cost := weekendCost(diag)
		if best == nil || cost < bestCost {
			best, bestDiag, bestCost, bestSeed = sched, diag, cost, seed
		}
	}

	return WeekendResult{Schedule: best, Diagnostics: bestDiag, Cost: bestCost, SeedUsed: bestSeed}
}

// weekendState tracks person -> week -> hours already committed, used
// both during construction and by the hour-cap gate.
type weekendState struct {
	hours      map[string]map[int]float64
	workedSat  map[string]map[int]bool
	workedDay  map[string]map[int]map[domain.Weekday]bool
	workedNite map[string]map[int]map[domain.Weekday]bool
}

func newWeekendState() *weekendState {
	return &weekendState{
		hours:      make(map[string]map[int]float64),
		workedSat:  make(map[string]map[int]bool),
		workedDay:  make(map[string]map[int]map[domain.Weekday]bool),
		workedNite: make(map[string]map[int]map[domain.Weekday]bool),
	}
}

func (w *weekendState) eligible(person string, week int, day domain.Weekday, shift domain.Shift) bool {
	if w.hours[person] != nil && w.hours[person][week]+shift.Hours() > 24 {
		return false
	}
	if day == domain.Sun && w.workedDay[person][week][domain.Sat] && w.workedNite[person][week][domain.Sat] {
		return false
	}
	already := (w.workedDay[person][week] != nil && w.workedDay[person][week][day] && shift == domain.Day) ||
		(w.workedNite[person][week] != nil && w.workedNite[person][week][day] && shift == domain.Night)
	return !already
}

func (w *weekendState) commit(person string, week int, day domain.Weekday, shift domain.Shift) {
	if w.hours[person] == nil {
		w.hours[person] = make(map[int]float64)
	}
	w.hours[person][week] += shift.Hours()

	if shift == domain.Day {
		if w.workedDay[person] == nil {
			w.workedDay[person] = make(map[int]map[domain.Weekday]bool)
		}
		if w.workedDay[person][week] == nil {
			w.workedDay[person][week] = make(map[domain.Weekday]bool)
		}
		w.workedDay[person][week][day] = true
	}
	if shift == domain.Night {
		if w.workedNite[person] == nil {
			w.workedNite[person] = make(map[int]map[domain.Weekday]bool)
		}
		if w.workedNite[person][week] == nil {
			w.workedNite[person][week] = make(map[domain.Weekday]bool)
		}
		w.workedNite[person][week][day] = true
	}
}

// constructWeekend fills every (week, day, shift) pair slot, drawing
// from whoever currently has the least accumulated weekend hours this
// horizon, shuffled by the seed to avoid always favouring the same
// alphabetical tie.
func constructWeekend(eligible []*domain.Person, weeks int, seed uint64) *domain.Schedule {
	sched := domain.NewSchedule(weeks, seed)
	if len(eligible) == 0 {
		return sched
	}
	rng := rand.New(rand.NewSource(int64(seed)))
	state := newWeekendState()
	totalHours := make(map[string]float64)

	pool := make([]*domain.Person, len(eligible))
	copy(pool, eligible)

	for week := 1; week <= weeks; week++ {
		for _, day := range domain.WeekendDays {
			for _, shift := range []domain.Shift{domain.Day, domain.Night} {
				rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
				sort.SliceStable(pool, func(i, j int) bool { return totalHours[pool[i].Name()] < totalHours[pool[j].Name()] })

				pos := domain.CalendarPosition{Week: week, Day: day}
				placed := 0
				for _, p := range pool {
					if placed == shift.Arity() {
						break
					}
					if !state.eligible(p.Name(), week, day, shift) {
						continue
					}
					sched.Assign(pos, shift, 0, p.Name())
					state.commit(p.Name(), week, day, shift)
					totalHours[p.Name()] += shift.Hours()
					placed++
				}
			}
		}
	}
	return sched
}

// improveWeekend runs a bounded greedy swap pass targeting the
// Saturday/Sunday-count and 12h/24h-count spreads, mirroring the
// weekday rebalancer's shape but over the much smaller weekend state
// space.
func improveWeekend(sched *domain.Schedule, eligible []*domain.Person, weeks int) *domain.Schedule {
	const maxSteps = 50
	current := sched
	currentDiag := validateWeekend(current, eligible, weeks)
	currentCost := weekendCost(currentDiag)

	for step := 0; step < maxSteps; step++ {
		over, under, ok := weekendExtremeGapPair(current, eligible, weeks)
		if !ok {
			break
		}
		pos, shift, ok := findWeekendSwappableSlot(current, eligible, weeks, over, under)
		if !ok {
			break
		}
		trial := current.Clone()
		trial.Unassign(pos, shift, 0, over)
		trial.Assign(pos, shift, 0, under)
		trialDiag := validateWeekend(trial, eligible, weeks)
		trialCost := weekendCost(trialDiag)
		if trialDiag.HourCapExceeded > currentDiag.HourCapExceeded || trialCost >= currentCost {
			break
		}
		current, currentDiag, currentCost = trial, trialDiag, trialCost
	}
	return current
}

func weekendExtremeGapPair(sched *domain.Schedule, eligible []*domain.Person, weeks int) (over, under string, ok bool) {
	if len(eligible) == 0 {
		return "", "", false
	}
	totals := make(map[string]float64)
	for _, p := range eligible {
		for week := 1; week <= weeks; week++ {
			for _, day := range domain.WeekendDays {
				totals[p.Name()] += sched.ShiftOf(p.Name(), domain.CalendarPosition{Week: week, Day: day}).Hours()
			}
		}
	}
	mean := 0.0
	for _, v := range totals {
		mean += v
	}
	mean /= float64(len(eligible))

	maxGap, minGap := -1e18, 1e18
	for _, p := range eligible {
		gap := totals[p.Name()] - mean
		if gap > maxGap {
			maxGap, over = gap, p.Name()
		}
		if gap < minGap {
			minGap, under = gap, p.Name()
		}
	}
	if over == "" || under == "" || over == under || maxGap <= 0 || minGap >= 0 {
		return "", "", false
	}
	return over, under, true
}

func findWeekendSwappableSlot(sched *domain.Schedule, eligible []*domain.Person, weeks int, over, under string) (domain.CalendarPosition, domain.Shift, bool) {
	positions := make([]domain.CalendarPosition, 0, len(sched.ByPerson[over]))
	for pos := range sched.ByPerson[over] {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Week != positions[j].Week {
			return positions[i].Week < positions[j].Week
		}
		return positions[i].Day < positions[j].Day
	})

	for _, pos := range positions {
		shift := sched.ShiftOf(over, pos)
		state := weekendStateExcluding(sched, weeks, pos, shift, over)
		if state.eligible(under, pos.Week, pos.Day, shift) {
			return pos, shift, true
		}
	}
	return domain.CalendarPosition{}, "", false
}

func weekendStateExcluding(sched *domain.Schedule, weeks int, excludePos domain.CalendarPosition, excludeShift domain.Shift, excludePerson string) *weekendState {
	state := newWeekendState()
	for week := 1; week <= weeks; week++ {
		for _, day := range domain.WeekendDays {
			pos := domain.CalendarPosition{Week: week, Day: day}
			for _, shift := range []domain.Shift{domain.Day, domain.Night} {
				for _, person := range sched.SlotOccupants(pos, shift, 0) {
					if pos == excludePos && shift == excludeShift && person == excludePerson {
						continue
					}
					state.commit(person, week, day, shift)
				}
			}
		}
	}
	return state
}

// validateWeekend independently re-checks W1-W3 and computes the
// soft-term spreads.
func validateWeekend(sched *domain.Schedule, eligible []*domain.Person, weeks int) *WeekendDiagnostics {
	diag := &WeekendDiagnostics{}
	hours := make(map[string]map[int]float64)
	satCount := make(map[string]float64)
	sunCount := make(map[string]float64)
	kind24 := make(map[string]float64)
	pairSeen := make(map[string]int)

	for week := 1; week <= weeks; week++ {
		for _, day := range domain.WeekendDays {
			pos := domain.CalendarPosition{Week: week, Day: day}
			for _, shift := range []domain.Shift{domain.Day, domain.Night} {
				occ := sched.SlotOccupants(pos, shift, 0)
				if len(occ) < shift.Arity() {
					diag.VacantSlots += uint32(shift.Arity() - len(occ))
				}
				for _, name := range occ {
					if hours[name] == nil {
						hours[name] = make(map[int]float64)
					}
					hours[name][week] += shift.Hours()
					if day == domain.Sat {
						satCount[name]++
					} else {
						sunCount[name]++
					}
				}
				if len(occ) == 2 {
					key := occ[0] + "|" + occ[1]
					if occ[0] > occ[1] {
						key = occ[1] + "|" + occ[0]
					}
					pairSeen[key]++
				}
			}
		}
		for _, p := range eligible {
			for _, day := range domain.WeekendDays {
				if worksSlot(sched, p.Name(), week, day, domain.Day) && worksSlot(sched, p.Name(), week, day, domain.Night) {
					kind24[p.Name()]++
				}
			}
			if hours[p.Name()] != nil && hours[p.Name()][week] > 24 {
				diag.HourCapExceeded++
			}
		}
	}

	diag.SaturdaySpread = spread(satCount, eligible)
	diag.SundaySpread = spread(sunCount, eligible)
	diag.ShiftKindSpread = spread(kind24, eligible)
	for _, count := range pairSeen {
		if count > 1 {
			diag.PairRepetitions += uint32(count - 1)
		}
	}
	return diag
}

// worksSlot reports whether person occupies the (week, day, shift) pair
// slot. It reads the slot itself: a person's ByPerson entry holds only
// one shift per day, so it cannot show a 24h (Day+Night) worker.
func worksSlot(sched *domain.Schedule, person string, week int, day domain.Weekday, shift domain.Shift) bool {
	for _, name := range sched.SlotOccupants(domain.CalendarPosition{Week: week, Day: day}, shift, 0) {
		if name == person {
			return true
		}
	}
	return false
}
