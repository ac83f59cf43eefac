package scheduler

import "github.com/theatreops/rota-backend/internal/domain"

// modelBuilder tracks the running state of one candidate as its slots
// are filled, so every hard constraint can be checked *before* a
// placement is made rather than repaired after the fact. Each check is
// its own named routine, mirroring the shape of the OR-Tools linear
// constraints in original_source/src/rota/solver/pairs.py without
// needing a CP-SAT binding — see SPEC_FULL.md's design note.
type modelBuilder struct {
	team   domain.TeamInput
	byName map[string]*domain.Person
	config domain.SolveConfig
	edo    *domain.EdoPlan

	assignedDay  map[string]map[int]map[domain.Weekday]domain.Shift
	nightCount   map[string]int
	nightStreak  map[string]int // consecutive nights ending at the last day processed
	workdayCount map[string]map[int]int
}

func newModelBuilder(team domain.TeamInput, config domain.SolveConfig, edo *domain.EdoPlan) *modelBuilder {
	return &modelBuilder{
		team:         team,
		byName:       team.ByName(),
		config:       config,
		edo:          edo,
		assignedDay:  make(map[string]map[int]map[domain.Weekday]domain.Shift),
		nightCount:   make(map[string]int),
		nightStreak:  make(map[string]int),
		workdayCount: make(map[string]map[int]int),
	}
}

func (b *modelBuilder) shiftOn(person string, week int, day domain.Weekday) (domain.Shift, bool) {
	if b.assignedDay[person] == nil || b.assignedDay[person][week] == nil {
		return "", false
	}
	s, ok := b.assignedDay[person][week][day]
	return s, ok
}

// addCoverage reports whether a gene still has room. Coverage itself is
// enforced structurally by only ever generating exactly StaffingPlan-many
// slotKeys (buildSlotOrder); a slot may still end up short of arity if no
// eligible person remains. The search always treats that as the
// vacant_slots soft cost while building and repairing candidates — an
// impossible placement can't be un-generated mid-search — but when
// impose_targets is set, hardInfeasible reclassifies any surviving
// vacancy in the final result as infeasible rather than merely costly.
func (b *modelBuilder) addCoverage(gene *gene, shift domain.Shift) bool {
	return len(gene.Occupants) < shift.Arity()
}

// addPerDayLimit reports whether person is still free on (week, day):
// nobody works two shifts the same day.
func (b *modelBuilder) addPerDayLimit(person string, week int, day domain.Weekday) bool {
	_, already := b.shiftOn(person, week, day)
	return !already
}

// addRestAfterNight reports whether person may work on (week, day) given
// the previous weekday's shift. If rest-after-night is enabled and the
// person worked Night the previous weekday, they may not work any shift
// today. Never crosses a week boundary: Friday's night never touches next
// week's Monday, since day-1 of a week's Monday is simply undefined.
func (b *modelBuilder) addRestAfterNight(person string, week int, day domain.Weekday) bool {
	if !b.config.RestAfterNight || day == domain.Mon {
		return true
	}
	prevShift, ok := b.shiftOn(person, week, day-1)
	if !ok {
		return true
	}
	return prevShift != domain.Night
}

// addNightCap reports whether person may take on another Night shift on
// (week, day), honouring both the total-nights cap and the
// max_nights_sequence knob (open question resolved: the run streak applies
// within the horizon, carrying from Friday into the next week's Monday,
// and resets on any non-Night day — see DESIGN.md).
func (b *modelBuilder) addNightCap(person string, week int, day domain.Weekday) bool {
	p := b.byName[person]
	if uint32(b.nightCount[person]) >= p.MaxNights() {
		return false
	}
	run := uint32(0)
	for w, d := week, day; run < b.config.MaxNightsSequence; run++ {
		if d == domain.Mon {
			w, d = w-1, domain.Fri
		} else {
			d--
		}
		if s, ok := b.shiftOn(person, w, d); !ok || s != domain.Night {
			break
		}
	}
	if b.config.MaxNightsSequence > 0 && run >= b.config.MaxNightsSequence {
		return false
	}
	return true
}

// addWorkdayTarget reports whether person has room left in their weekly
// workday target (strict upper bound; under-target is only a soft
// deviation cost, never a hard rejection).
func (b *modelBuilder) addWorkdayTarget(person string, week int) bool {
	p := b.byName[person]
	target := p.WorkdaysPerWeek()
	if b.edo != nil && b.config.EdoEnabled && b.edo.IsRecipient(week, person) {
		target--
		if target < 0 {
			target = 0
		}
	}
	return b.workdayCount[person][week] < target
}

// addEdo reports whether person may work on (week, day): a recipient
// with a fixed earned-day-off never works it.
func (b *modelBuilder) addEdo(person string, week int, day domain.Weekday) bool {
	if !b.config.EdoEnabled || b.edo == nil || !b.edo.IsRecipient(week, person) {
		return true
	}
	fixed, ok := b.edo.FixedDay[person]
	if !ok || fixed == nil {
		return true
	}
	return *fixed != day
}

// eligible runs every hard gate for a candidate occupant of (week, day,
// shift), short-circuiting on the first failing routine.
func (b *modelBuilder) eligible(person string, week int, day domain.Weekday, shift domain.Shift) bool {
	if !b.addPerDayLimit(person, week, day) {
		return false
	}
	if !b.addRestAfterNight(person, week, day) {
		return false
	}
	if !b.addEdo(person, week, day) {
		return false
	}
	if shift == domain.Night && !b.addNightCap(person, week, day) {
		return false
	}
	if shift.IsWorking() && !b.addWorkdayTarget(person, week) {
		return false
	}
	return true
}

// commit records a placement, updating every piece of running state the
// hard-constraint routines depend on.
func (b *modelBuilder) commit(person string, week int, day domain.Weekday, shift domain.Shift) {
	if b.assignedDay[person] == nil {
		b.assignedDay[person] = make(map[int]map[domain.Weekday]domain.Shift)
	}
	if b.assignedDay[person][week] == nil {
		b.assignedDay[person][week] = make(map[domain.Weekday]domain.Shift)
	}
	b.assignedDay[person][week][day] = shift

	if shift.IsWorking() {
		if b.workdayCount[person] == nil {
			b.workdayCount[person] = make(map[int]int)
		}
		b.workdayCount[person][week]++
	}

	if shift == domain.Night {
		b.nightCount[person]++
		b.nightStreak[person]++
	} else {
		b.nightStreak[person] = 0
	}
}

// uncommit reverses commit, used when the repair pass strips an occupant
// that a later, incompatible pass would otherwise conflict with. Only
// ever called immediately after the matching commit within the same
// repair walk, so streak/count bookkeeping stays exact.
func (b *modelBuilder) uncommit(person string, week int, day domain.Weekday, shift domain.Shift) {
	if b.assignedDay[person] != nil && b.assignedDay[person][week] != nil {
		delete(b.assignedDay[person][week], day)
	}
	if shift.IsWorking() && b.workdayCount[person] != nil {
		b.workdayCount[person][week]--
	}
	if shift == domain.Night {
		b.nightCount[person]--
		b.nightStreak[person] = 0
	}
}
