package domain

// FairnessCohort selects the reference grouping for spread terms (§4.4).
type FairnessCohort string

const (
	CohortNone       FairnessCohort = "none"
	CohortByWorkdays FairnessCohort = "by_workdays"
	CohortByTeam     FairnessCohort = "by_team"
)

// FairnessScope toggles a fairness term off, or scopes it globally or
// per-cohort (§6.1).
type FairnessScope string

const (
	FairnessOff         FairnessScope = "off"
	FairnessGlobal      FairnessScope = "global"
	FairnessScopeCohort FairnessScope = "cohort"
)

// NightFairnessMode chooses absolute night counts or workday-rate-scaled
// proportional night fairness (§4.4 "Proportional night fairness").
type NightFairnessMode string

const (
	NightFairnessCount NightFairnessMode = "count"
	NightFairnessRate  NightFairnessMode = "rate"
)

// InterTeamNightShare chooses whether the extra inter-team fairness term
// is scaled by workdays or by headcount (§9 Open Question b).
type InterTeamNightShare string

const (
	InterTeamShareOff          InterTeamNightShare = "off"
	InterTeamShareProportional InterTeamNightShare = "proportional"
	InterTeamShareGlobal       InterTeamNightShare = "global"
)

// SolveConfig carries every option recognised by the engine (§6.1).
type SolveConfig struct {
	Weeks             int
	Tries             int
	Seed              uint64
	TimeLimitSeconds  int
	RestAfterNight    bool
	EdoEnabled        bool
	EdoFixedDayGlobal *Weekday

	FairnessCohorts   FairnessCohort
	NightFairness     FairnessScope
	NightFairnessMode NightFairnessMode
	EveningFairness   FairnessScope

	InterTeamNightShare InterTeamNightShare

	MaxNightsSequence  uint32
	PostRebalanceSteps uint32
	ImposeTargets      bool
}

// DefaultSolveConfig mirrors the defaults named across spec.md §6.1/§4.9.
func DefaultSolveConfig() SolveConfig {
	return SolveConfig{
		Weeks:               1,
		Tries:               1,
		Seed:                0,
		TimeLimitSeconds:    30,
		RestAfterNight:      true,
		EdoEnabled:          true,
		FairnessCohorts:     CohortNone,
		NightFairness:       FairnessGlobal,
		NightFairnessMode:   NightFairnessCount,
		EveningFairness:     FairnessGlobal,
		InterTeamNightShare: InterTeamShareProportional,
		MaxNightsSequence:   3,
		PostRebalanceSteps:  200,
		ImposeTargets:       false,
	}
}

// Validate checks the ranges named in §6.1.
func (c SolveConfig) Validate() error {
	if c.Weeks < 1 || c.Weeks > 24 {
		return &InputError{Reason: "weeks must be in [1,24]"}
	}
	if c.Tries < 1 || c.Tries > 50 {
		return &InputError{Reason: "tries must be in [1,50]"}
	}
	if c.TimeLimitSeconds < 1 {
		return &InputError{Reason: "time_limit_seconds must be positive"}
	}
	return nil
}
