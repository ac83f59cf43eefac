package domain

// Schedule is the full weekday (or weekend) output: positions mapped to
// the people filling each shift slot, plus the inverse index and the
// provenance (EDO/staffing plans and the RNG seed that produced it).
type Schedule struct {
	// BySlot[position][shift][slotIndex] = occupants of that one physical
	// slot, length at most the shift's arity. A slot present in
	// StaffingPlan but absent here (or short of arity) is vacant.
	BySlot map[CalendarPosition]map[Shift]map[int][]string

	// ByPerson[personName][position] = shift worked, Off when none.
	ByPerson map[string]map[CalendarPosition]Shift

	EdoPlan      *EdoPlan
	StaffingPlan *StaffingPlan
	Weeks        int
	Seed         uint64
}

func NewSchedule(weeks int, seed uint64) *Schedule {
	return &Schedule{
		BySlot:   make(map[CalendarPosition]map[Shift]map[int][]string),
		ByPerson: make(map[string]map[CalendarPosition]Shift),
		Weeks:    weeks,
		Seed:     seed,
	}
}

// Assign records person working shift at pos in the given physical slot
// (slotIndex distinguishes same-shift slots on the same day, e.g. a
// second Day pair). It keeps both indices consistent.
func (s *Schedule) Assign(pos CalendarPosition, shift Shift, slotIndex int, person string) {
	if s.BySlot[pos] == nil {
		s.BySlot[pos] = make(map[Shift]map[int][]string)
	}
	if s.BySlot[pos][shift] == nil {
		s.BySlot[pos][shift] = make(map[int][]string)
	}
	s.BySlot[pos][shift][slotIndex] = append(s.BySlot[pos][shift][slotIndex], person)

	if s.ByPerson[person] == nil {
		s.ByPerson[person] = make(map[CalendarPosition]Shift)
	}
	s.ByPerson[person][pos] = shift
}

// Unassign reverses Assign for one occupant, used by repair passes that
// must vacate a placement already committed elsewhere.
func (s *Schedule) Unassign(pos CalendarPosition, shift Shift, slotIndex int, person string) {
	occ := s.BySlot[pos][shift][slotIndex]
	for i, name := range occ {
		if name == person {
			s.BySlot[pos][shift][slotIndex] = append(occ[:i], occ[i+1:]...)
			break
		}
	}
	if s.ByPerson[person] != nil {
		delete(s.ByPerson[person], pos)
	}
}

// ShiftOf returns the shift worked by person at pos, defaulting to Off
// when no assignment was recorded.
func (s *Schedule) ShiftOf(person string, pos CalendarPosition) Shift {
	if m, ok := s.ByPerson[person]; ok {
		if sh, ok := m[pos]; ok {
			return sh
		}
	}
	return Off
}

// SlotOccupants returns who fills one physical (position, shift,
// slotIndex) slot.
func (s *Schedule) SlotOccupants(pos CalendarPosition, shift Shift, slotIndex int) []string {
	return s.BySlot[pos][shift][slotIndex]
}

// OccupantsOf returns everyone filling any slot of (position, shift),
// across all slot indices, in slot-index order.
func (s *Schedule) OccupantsOf(pos CalendarPosition, shift Shift) []string {
	bySlot := s.BySlot[pos][shift]
	if bySlot == nil {
		return nil
	}
	var all []string
	for i := 0; ; i++ {
		occ, ok := bySlot[i]
		if !ok {
			break
		}
		all = append(all, occ...)
	}
	return all
}

// FindSlot locates which (shift, slotIndex) person occupies at pos, if
// any, by scanning the shift they are recorded as working there. Used
// by repair passes that need to vacate a person without already
// knowing which physical slot they hold.
func (s *Schedule) FindSlot(pos CalendarPosition, person string) (shift Shift, slotIndex int, ok bool) {
	sh, worked := s.ByPerson[person][pos]
	if !worked {
		return "", 0, false
	}
	bySlot := s.BySlot[pos][sh]
	for idx, occ := range bySlot {
		for _, name := range occ {
			if name == person {
				return sh, idx, true
			}
		}
	}
	return "", 0, false
}

// Clone deep-copies the assignment maps so a trial mutation (e.g. the
// post-rebalancer's swap probes) can be discarded without touching the
// original.
func (s *Schedule) Clone() *Schedule {
	out := NewSchedule(s.Weeks, s.Seed)
	out.EdoPlan = s.EdoPlan
	out.StaffingPlan = s.StaffingPlan
	for pos, byShift := range s.BySlot {
		out.BySlot[pos] = make(map[Shift]map[int][]string, len(byShift))
		for shift, bySlot := range byShift {
			out.BySlot[pos][shift] = make(map[int][]string, len(bySlot))
			for idx, occ := range bySlot {
				copied := make([]string, len(occ))
				copy(copied, occ)
				out.BySlot[pos][shift][idx] = copied
			}
		}
	}
	for person, byPos := range s.ByPerson {
		out.ByPerson[person] = make(map[CalendarPosition]Shift, len(byPos))
		for pos, shift := range byPos {
			out.ByPerson[person][pos] = shift
		}
	}
	return out
}
