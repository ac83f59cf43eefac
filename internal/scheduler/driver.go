package scheduler

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theatreops/rota-backend/internal/domain"
)

// attemptOutcome is one seeded attempt's result, kept around only long
// enough for Solve to pick the best and discard the rest.
type attemptOutcome struct {
	seed  uint64
	sched *domain.Schedule
	diag  *domain.Diagnostics
	score float64
	err   error
}

// Solve is the engine's sole entry point: validate the input, derive the
// staffing and EDO plans, run config.Tries concurrent seeded attempts
// against a shared deadline, keep the best, rebalance it, and report.
func Solve(ctx context.Context, team domain.TeamInput, config domain.SolveConfig) domain.SolveResult {
	if err := team.Validate(); err != nil {
		return domain.SolveResult{Status: domain.StatusError, Err: err}
	}
	if err := config.Validate(); err != nil {
		return domain.SolveResult{Status: domain.StatusError, Err: err}
	}

	edoPlan := PlanEDO(team, config.Weeks, config.EdoFixedDayGlobal)
	if !config.EdoEnabled {
		edoPlan = domain.NewEdoPlan()
	}
	staffing := DeriveStaffing(team, edoPlan, config.Weeks)

	deadline := time.Duration(config.TimeLimitSeconds)*time.Second + 10*time.Second
	attemptCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	baseSeed := config.Seed
	if baseSeed == 0 {
		baseSeed = randomSeed()
	}

	outcomes := make([]attemptOutcome, config.Tries)
	group, gctx := errgroup.WithContext(attemptCtx)
	group.SetLimit(min(config.Tries, runtime.GOMAXPROCS(0)))
	for i := 0; i < config.Tries; i++ {
		i := i
		seed := baseSeed + uint64(i)
		group.Go(func() error {
			sched, diag, score, err := runAttemptRecovered(gctx, seed, team, config, staffing, edoPlan)
			outcomes[i] = attemptOutcome{seed: seed, sched: sched, diag: diag, score: score, err: err}
			return nil
		})
	}
	_ = group.Wait()

	var best *attemptOutcome
	var lastErr error
	cancelledAll := true
	for i := range outcomes {
		o := &outcomes[i]
		if o.err != nil {
			lastErr = o.err
			if _, isCancelled := o.err.(*domain.Cancelled); !isCancelled {
				cancelledAll = false
			}
			continue
		}
		cancelledAll = false
		if best == nil || betterOutcome(o, best) {
			best = o
		}
	}

	if best == nil {
		if cancelledAll {
			return domain.SolveResult{Status: domain.StatusTimeout, Err: &domain.Timeout{Seed: baseSeed}}
		}
		return domain.SolveResult{Status: domain.StatusError, Err: lastErr}
	}

	sched := Rebalance(best.sched, team, config, staffing, int(config.PostRebalanceSteps))
	diag := Validate(sched, team, config, staffing)
	score := Score(diag) + extraObjectiveTerms(sched, team, config, diag)

	status := domain.StatusOptimal
	var resultErr error
	switch {
	case hardInfeasible(diag, config):
		status = domain.StatusInfeasible
		resultErr = &domain.Infeasible{Reason: fmt.Sprintf("duplicates_per_day=%d night_then_work=%d vacant_slots=%d",
			diag.DuplicatesPerDay, diag.NightThenWork, diag.VacantSlots)}
	case score > 0:
		status = domain.StatusFeasible
	}

	return domain.SolveResult{
		Schedule:    sched,
		Diagnostics: diag,
		Score:       score,
		SeedUsed:    best.seed,
		Status:      status,
		Err:         resultErr,
	}
}

// betterOutcome implements the deterministic tie-break named in the
// engine's result contract: lowest score first, then fewest vacant
// slots, then lowest seed.
func betterOutcome(a, b *attemptOutcome) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	if a.diag.VacantSlots != b.diag.VacantSlots {
		return a.diag.VacantSlots < b.diag.VacantSlots
	}
	return a.seed < b.seed
}

// randomSeed produces a fresh base seed for an unseeded solve (config.Seed
// == 0 means "random" per the engine's seed contract). Falls back to the
// wall clock if the platform's CSPRNG is unavailable, which never blocks
// the solve on entropy exhaustion.
func randomSeed() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(buf[:])
}

func runAttemptRecovered(ctx context.Context, seed uint64, team domain.TeamInput, config domain.SolveConfig, staffing *domain.StaffingPlan, edoPlan *domain.EdoPlan) (sched *domain.Schedule, diag *domain.Diagnostics, score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.SolverError{Seed: int(seed), Err: fmt.Errorf("%v", r)}
		}
	}()
	return RunAttempt(ctx, seed, team, config, staffing, edoPlan)
}
