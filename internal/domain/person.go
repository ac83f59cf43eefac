package domain

import "fmt"

// Person is immutable after construction — nothing in the engine mutates
// a Person once NewPerson has validated it.
type Person struct {
	name              string
	workdaysPerWeek   int
	prefersNight      bool
	noEvening         bool
	maxNights         uint32
	edoEligible       bool
	edoFixedDay       *Weekday
	team              string
	isContractor      bool
	availableWeekends bool
}

const NoMaxNights = ^uint32(0)

type PersonParams struct {
	Name              string
	WorkdaysPerWeek   int
	PrefersNight      bool
	NoEvening         bool
	MaxNights         uint32 // honoured only when HasMaxNights is true; otherwise the cap is NoMaxNights
	HasMaxNights      bool
	EdoEligible       bool
	EdoFixedDay       *Weekday
	Team              string
	IsContractor      bool
	AvailableWeekends bool
}

// NewPerson validates and constructs a Person. Construction is the only
// place these invariants are checked — there are no setters afterward.
func NewPerson(p PersonParams) (*Person, error) {
	if p.Name == "" {
		return nil, &InputError{Reason: "person name must not be empty"}
	}
	if p.WorkdaysPerWeek < 0 || p.WorkdaysPerWeek > 5 {
		return nil, &InputError{Reason: fmt.Sprintf("workdays_per_week out of range [0,5] for %q", p.Name), Value: fmt.Sprint(p.WorkdaysPerWeek)}
	}

	maxNights := NoMaxNights
	if p.HasMaxNights {
		maxNights = p.MaxNights
	}

	return &Person{
		name:              p.Name,
		workdaysPerWeek:   p.WorkdaysPerWeek,
		prefersNight:      p.PrefersNight,
		noEvening:         p.NoEvening,
		maxNights:         maxNights,
		edoEligible:       p.EdoEligible,
		edoFixedDay:       p.EdoFixedDay,
		team:              p.Team,
		isContractor:      p.IsContractor,
		availableWeekends: p.AvailableWeekends,
	}, nil
}

func (p *Person) Name() string            { return p.name }
func (p *Person) WorkdaysPerWeek() int    { return p.workdaysPerWeek }
func (p *Person) PrefersNight() bool      { return p.prefersNight }
func (p *Person) NoEvening() bool         { return p.noEvening }
func (p *Person) MaxNights() uint32       { return p.maxNights }
func (p *Person) EdoEligible() bool       { return p.edoEligible }
func (p *Person) EdoFixedDay() *Weekday   { return p.edoFixedDay }
func (p *Person) Team() string            { return p.team }
func (p *Person) IsContractor() bool      { return p.isContractor }
func (p *Person) AvailableWeekends() bool { return p.availableWeekends }

// CohortKey returns the key for this person under the given cohort mode.
func (p *Person) CohortKey(mode FairnessCohort) string {
	switch mode {
	case CohortNone:
		return "*"
	case CohortByWorkdays:
		return fmt.Sprintf("wd=%d", p.workdaysPerWeek)
	case CohortByTeam:
		if p.team == "" {
			return "untagged"
		}
		return p.team
	default:
		return "*"
	}
}
