package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theatreops/rota-backend/internal/domain"
)

func TestScoreIsZeroForACleanDiagnosticsRecord(t *testing.T) {
	diag := domain.NewDiagnostics()
	assert.Zero(t, Score(diag))
}

func TestScoreWeightsRolling48hViolationsHeaviestAmongCountedTerms(t *testing.T) {
	rolling := domain.NewDiagnostics()
	rolling.Rolling48hViolations = 1

	vacant := domain.NewDiagnostics()
	vacant.VacantSlots = 1

	assert.Greater(t, Score(rolling), Score(vacant))
}

func TestScoreAccumulatesPerCohortStddevTerms(t *testing.T) {
	diag := domain.NewDiagnostics()
	diag.PerCohortNightStddev["blue"] = 2
	diag.PerCohortEveningStddev["red"] = 1

	assert.Equal(t, 10.0*2+3.0*1, Score(diag))
}
