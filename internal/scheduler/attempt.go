package scheduler

import (
	"context"
	"math/rand"
	"sort"

	"github.com/theatreops/rota-backend/internal/domain"
)

// RunAttempt drives one seeded local-search run over the weekday model:
// construct an initial population respecting every hard constraint,
// evolve it for a bounded number of generations, and materialise the
// best candidate found into a Schedule plus its independently
// re-verified Diagnostics and score.
func RunAttempt(ctx context.Context, seed uint64, team domain.TeamInput, config domain.SolveConfig, staffing *domain.StaffingPlan, edoPlan *domain.EdoPlan) (*domain.Schedule, *domain.Diagnostics, float64, error) {
	params := DefaultParameters()
	order := buildSlotOrder(staffing, config.Weeks)
	rng := rand.New(rand.NewSource(int64(seed)))

	population := make([]*candidate, params.PopulationSize)
	for i := range population {
		population[i] = randomInitCandidate(rng, team, order, edoPlan, config)
	}

	var best *candidate
	for gen := 0; gen < params.MaxGenerations; gen++ {
		select {
		case <-ctx.Done():
			return nil, nil, 0, &domain.Cancelled{}
		default:
		}

		for _, c := range population {
			c.fitness = -evaluateCost(c, team, config, staffing, edoPlan, seed)
		}
		sort.Slice(population, func(i, j int) bool { return population[i].fitness > population[j].fitness })

		if best == nil || population[0].fitness > best.fitness {
			best = population[0].clone()
		}
		if population[0].fitness == 0 {
			break
		}
		if gen == params.MaxGenerations-1 {
			break
		}

		next := make([]*candidate, 0, params.PopulationSize)
		for i := 0; i < params.EliteCount && i < len(population); i++ {
			next = append(next, population[i].clone())
		}
		for len(next) < params.PopulationSize {
			parent1 := tournamentSelect(rng, population)
			parent2 := tournamentSelect(rng, population)
			var child *candidate
			if rng.Float64() < params.CrossoverRate {
				child = crossover(rng, parent1, parent2)
			} else {
				child = parent1.clone()
			}
			mutate(rng, child, team, config)
			child = repair(child, team, config, edoPlan)
			next = append(next, child)
		}
		population = next
	}

	sched := best.toSchedule(team, edoPlan, staffing, config.Weeks, seed)
	diag := Validate(sched, team, config, staffing)
	score := Score(diag) + extraObjectiveTerms(sched, team, config, diag)
	return sched, diag, score, nil
}

// randomInitCandidate fills every slot in canonical order, drawing each
// occupant from a freshly shuffled pool of people who still pass every
// hard-constraint gate. A slot that runs out of eligible people is left
// (partially) vacant, deferred entirely to the vacant_slots soft cost.
func randomInitCandidate(rng *rand.Rand, team domain.TeamInput, order []slotKey, edoPlan *domain.EdoPlan, config domain.SolveConfig) *candidate {
	c := newCandidate(order)
	b := newModelBuilder(team, config, edoPlan)

	pool := make([]*domain.Person, len(team.People))
	copy(pool, team.People)

	for _, key := range order {
		gene := c.genes[key]
		needed := key.Shift.Arity() - len(gene.Occupants)
		if needed <= 0 {
			continue
		}
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		for _, p := range pool {
			if needed == 0 {
				break
			}
			if !b.eligible(p.Name(), key.Week, key.Day, key.Shift) {
				continue
			}
			gene.Occupants = append(gene.Occupants, p.Name())
			b.commit(p.Name(), key.Week, key.Day, key.Shift)
			needed--
		}
	}
	return repairEdoDayOff(c, team, config, edoPlan)
}

// repair rebuilds a candidate's hard-constraint state from scratch,
// walking genes in canonical order and dropping any occupant that no
// longer passes eligibility — the only way mutation or crossover can
// introduce a hard violation is by moving or swapping an occupant, and
// this walk always wins the tie in favour of whichever copy was
// encountered first in canonical order.
func repair(c *candidate, team domain.TeamInput, config domain.SolveConfig, edoPlan *domain.EdoPlan) *candidate {
	b := newModelBuilder(team, config, edoPlan)
	for _, key := range c.order {
		gene := c.genes[key]
		kept := gene.Occupants[:0:0]
		for _, person := range gene.Occupants {
			if b.eligible(person, key.Week, key.Day, key.Shift) {
				kept = append(kept, person)
				b.commit(person, key.Week, key.Day, key.Shift)
			}
		}
		gene.Occupants = kept
	}
	return repairEdoDayOff(c, team, config, edoPlan)
}

// repairEdoDayOff enforces the second EDO clause: a recipient with no
// fixed day must still end up with at least one day off in their
// granted week. Candidates built or mutated without this check can end
// up fully staffed every day, which is the one hard constraint the
// eligibility gate alone cannot express (it is existential, not a
// per-placement check).
func repairEdoDayOff(c *candidate, team domain.TeamInput, config domain.SolveConfig, edoPlan *domain.EdoPlan) *candidate {
	if !config.EdoEnabled || edoPlan == nil {
		return c
	}
	byName := team.ByName()
	for week, recipients := range edoPlan.Recipients {
		names := make([]string, 0, len(recipients))
		for name := range recipients {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, hasFixed := edoPlan.FixedDay[name]; hasFixed && edoPlan.FixedDay[name] != nil {
				continue
			}
			if byName[name] == nil {
				continue
			}
			hasOff := false
			workingDays := []domain.Weekday{}
			for _, day := range domain.WeekdayDays {
				if geneOccupant(c, week, day, name) == "" {
					hasOff = true
					break
				}
				workingDays = append(workingDays, day)
			}
			if hasOff || len(workingDays) == 0 {
				continue
			}
			day := workingDays[len(workingDays)-1]
			removeOccupant(c, week, day, name)
		}
	}
	return c
}

func geneOccupant(c *candidate, week int, day domain.Weekday, person string) string {
	for _, shift := range []domain.Shift{domain.Night, domain.Day, domain.Evening, domain.Admin} {
		for slotIndex := 0; ; slotIndex++ {
			key := slotKey{Week: week, Day: day, Shift: shift, SlotIndex: slotIndex}
			gene, ok := c.genes[key]
			if !ok {
				break
			}
			for _, name := range gene.Occupants {
				if name == person {
					return person
				}
			}
		}
	}
	return ""
}

func removeOccupant(c *candidate, week int, day domain.Weekday, person string) {
	for _, shift := range []domain.Shift{domain.Night, domain.Day, domain.Evening, domain.Admin} {
		for slotIndex := 0; ; slotIndex++ {
			key := slotKey{Week: week, Day: day, Shift: shift, SlotIndex: slotIndex}
			gene, ok := c.genes[key]
			if !ok {
				break
			}
			for i, name := range gene.Occupants {
				if name == person {
					gene.Occupants = append(gene.Occupants[:i], gene.Occupants[i+1:]...)
					return
				}
			}
		}
	}
}

// tournamentSelect picks the fitter of k=3 randomly drawn candidates.
// Preferred over the teacher's roulette wheel because fitness here is a
// negated cost, so it is usually negative (and turns positive only when
// the prefers-night bonus pulls the cost below zero), which roulette's
// proportional-to-fitness weighting cannot handle directly.
func tournamentSelect(rng *rand.Rand, population []*candidate) *candidate {
	best := population[rng.Intn(len(population))]
	for i := 0; i < 2; i++ {
		c := population[rng.Intn(len(population))]
		if c.fitness > best.fitness {
			best = c
		}
	}
	return best
}

// crossover swaps every gene from a random week onward between two
// parents, producing one child. The cut always falls on a week
// boundary so weekly structures (EDO, workday targets) stay coherent
// within a parent's contribution.
func crossover(rng *rand.Rand, p1, p2 *candidate) *candidate {
	child := p1.clone()
	if len(p1.order) == 0 {
		return child
	}
	weeks := make(map[int]bool)
	for _, k := range p1.order {
		weeks[k.Week] = true
	}
	weekList := make([]int, 0, len(weeks))
	for w := range weeks {
		weekList = append(weekList, w)
	}
	sort.Ints(weekList)
	if len(weekList) == 0 {
		return child
	}
	cut := weekList[rng.Intn(len(weekList))]
	for _, key := range child.order {
		if key.Week >= cut {
			if other, ok := p2.genes[key]; ok {
				child.genes[key] = other.clone()
			}
		}
	}
	return child
}

// mutate walks every gene and, with probability MutationRate, proposes
// a fresh random occupant in place of an existing one (or fills a
// vacancy). repair() is always run immediately after, so a proposal
// that breaks a hard constraint simply reverts to vacant rather than
// corrupting the candidate.
func mutate(rng *rand.Rand, c *candidate, team domain.TeamInput, config domain.SolveConfig) {
	params := DefaultParameters()
	for _, key := range c.order {
		if rng.Float64() >= params.MutationRate {
			continue
		}
		gene := c.genes[key]
		replacement := team.People[rng.Intn(len(team.People))].Name()
		if len(gene.Occupants) < key.Shift.Arity() {
			gene.Occupants = append(gene.Occupants, replacement)
		} else if len(gene.Occupants) > 0 {
			idx := rng.Intn(len(gene.Occupants))
			gene.Occupants[idx] = replacement
		}
	}
}

// evaluateCost materialises the candidate and scores it exactly the
// way the final result is scored, so the search optimises the same
// objective the reported score reflects.
func evaluateCost(c *candidate, team domain.TeamInput, config domain.SolveConfig, staffing *domain.StaffingPlan, edoPlan *domain.EdoPlan, seed uint64) float64 {
	sched := c.toSchedule(team, edoPlan, staffing, config.Weeks, seed)
	diag := Validate(sched, team, config, staffing)
	return Score(diag) + extraObjectiveTerms(sched, team, config, diag)
}

// extraObjectiveTerms covers the soft terms that Score's weighted sum
// over Diagnostics leaves out; both the search objective and the
// reported score add them on top of Score: contractor pairing, workday deviation, the
// no-evening preference, the prefers-night bonus, the night/evening
// spread terms, and the inter-team night-share term.
func extraObjectiveTerms(sched *domain.Schedule, team domain.TeamInput, config domain.SolveConfig, diag *domain.Diagnostics) float64 {
	const (
		weightContractorPair     = 50.0
		weightWorkdayDeviation   = 5.0
		weightNoEveningViolation = 3.0
		weightPrefersNightBonus  = -1.0
		weightNightSpread        = 10.0
		weightEveningSpread      = 3.0
		weightInterTeamShare     = 2.0
	)

	total := weightContractorPair*float64(diag.ContractorPairs) +
		weightNightSpread*nightSpreadTerm(sched, team, config) +
		weightEveningSpread*eveningSpreadTerm(sched, team, config) +
		weightInterTeamShare*interTeamNightShareTerm(sched, team, config)

	for _, p := range team.People {
		for week := 1; week <= sched.Weeks; week++ {
			actual := 0
			for _, day := range domain.WeekdayDays {
				shift := sched.ShiftOf(p.Name(), domain.CalendarPosition{Week: week, Day: day})
				if shift.IsWorking() {
					actual++
				}
				if p.NoEvening() && shift == domain.Evening {
					total += weightNoEveningViolation
				}
				if p.PrefersNight() && shift == domain.Night {
					total += weightPrefersNightBonus
				}
			}
			target := p.WorkdaysPerWeek()
			dev := actual - target
			if dev < 0 {
				dev = -dev
			}
			total += weightWorkdayDeviation * float64(dev)
		}
	}
	return total
}

// toSchedule materialises a candidate's genes into a Schedule, then
// marks each EDO recipient's granted day off explicitly: the fixed day
// when one was assigned, otherwise the first day left unworked that
// week (repairEdoDayOff guarantees one exists for non-fixed
// recipients).
func (c *candidate) toSchedule(team domain.TeamInput, edoPlan *domain.EdoPlan, staffing *domain.StaffingPlan, weeks int, seed uint64) *domain.Schedule {
	sched := domain.NewSchedule(weeks, seed)
	sched.EdoPlan = edoPlan
	sched.StaffingPlan = staffing

	for key, gene := range c.genes {
		pos := domain.CalendarPosition{Week: key.Week, Day: key.Day}
		for _, person := range gene.Occupants {
			sched.Assign(pos, key.Shift, key.SlotIndex, person)
		}
	}

	if edoPlan == nil {
		return sched
	}
	for week, recipients := range edoPlan.Recipients {
		names := make([]string, 0, len(recipients))
		for name := range recipients {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fixed := edoPlan.FixedDay[name]
			if fixed != nil {
				pos := domain.CalendarPosition{Week: week, Day: *fixed}
				if sched.ShiftOf(name, pos) == domain.Off {
					sched.Assign(pos, domain.Edo, 0, name)
				} else {
					sched.Assign(pos, domain.EdoConflict, 0, name)
				}
				continue
			}
			for _, day := range domain.WeekdayDays {
				pos := domain.CalendarPosition{Week: week, Day: day}
				if sched.ShiftOf(name, pos) == domain.Off {
					sched.Assign(pos, domain.Edo, 0, name)
					break
				}
			}
		}
	}
	return sched
}
