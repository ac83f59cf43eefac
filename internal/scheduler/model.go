package scheduler

import "github.com/theatreops/rota-backend/internal/domain"

// Parameters drives one attempt's local search (population size,
// generation count, and mutation shape). Renamed from the teacher's genetic
// Parameters but keeping the same knobs, since this engine still runs a
// population-based local search under the hood — see SPEC_FULL.md §9.
type Parameters struct {
	PopulationSize int
	MaxGenerations int
	CrossoverRate  float64
	MutationRate   float64
	EliteCount     int
}

// DefaultParameters is tuned to stay well inside the 100ms poll interval
// spec §5 requires between deadline checks, for team sizes typical of a
// single theatre.
func DefaultParameters() Parameters {
	return Parameters{
		PopulationSize: 24,
		MaxGenerations: 60,
		CrossoverRate:  0.6,
		MutationRate:   0.08,
		EliteCount:     2,
	}
}

// slotKey identifies one physical slot: a (week, day, shift, slot index)
// quadruple. A pair slot (Day/Evening/Night) has arity 2; an Admin slot
// has arity 1.
type slotKey struct {
	Week      int
	Day       domain.Weekday
	Shift     domain.Shift
	SlotIndex int
}

// gene is the decision for one slot: who occupies it, up to the shift's
// arity. len(Occupants) < arity means the slot is (partially) vacant.
type gene struct {
	Key       slotKey
	Occupants []string
}

func (g *gene) clone() *gene {
	occ := make([]string, len(g.Occupants))
	copy(occ, g.Occupants)
	return &gene{Key: g.Key, Occupants: occ}
}

// candidate is one full weekday schedule attempt: an ordered gene list
// (canonical order: week, then day, then shift priority, then slot
// index) plus a cached fitness.
type candidate struct {
	order   []slotKey
	genes   map[slotKey]*gene
	fitness float64
}

func newCandidate(order []slotKey) *candidate {
	c := &candidate{
		order: order,
		genes: make(map[slotKey]*gene, len(order)),
	}
	for _, k := range order {
		c.genes[k] = &gene{Key: k}
	}
	return c
}

func (c *candidate) clone() *candidate {
	cp := &candidate{
		order:   c.order,
		genes:   make(map[slotKey]*gene, len(c.genes)),
		fitness: c.fitness,
	}
	for k, g := range c.genes {
		cp.genes[k] = g.clone()
	}
	return cp
}

// shiftPriority orders shift processing during construction/repair: the
// most-constrained shift (Night, because it imposes next-day rest) goes
// first, then Day/Evening, then the solo Admin slot.
func shiftPriority(s domain.Shift) int {
	switch s {
	case domain.Night:
		return 0
	case domain.Day:
		return 1
	case domain.Evening:
		return 2
	case domain.Admin:
		return 3
	default:
		return 4
	}
}

// buildSlotOrder enumerates every slotKey named by the staffing plan, in
// canonical order, expanding each (week,day,shift) count into that many
// slot indices.
func buildSlotOrder(staffing *domain.StaffingPlan, weeks int) []slotKey {
	var order []slotKey
	for week := 1; week <= weeks; week++ {
		for _, day := range domain.WeekdayDays {
			shifts := []domain.Shift{domain.Night, domain.Day, domain.Evening, domain.Admin}
			for _, sh := range shifts {
				count := staffing.Get(week, day, sh)
				for i := 0; i < count; i++ {
					order = append(order, slotKey{Week: week, Day: day, Shift: sh, SlotIndex: i})
				}
			}
		}
	}
	return order
}
