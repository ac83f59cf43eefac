package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theatreops/rota-backend/internal/domain"
)

func TestRollingExcessIgnoresShortTimelines(t *testing.T) {
	excess, windows := RollingExcess([]float64{10, 10, 10})
	assert.Zero(t, excess)
	assert.Zero(t, windows)
}

func TestRollingExcessFindsNoViolationUnderFortyEightHours(t *testing.T) {
	timeline := make([]float64, 7)
	for i := range timeline {
		timeline[i] = 6
	}
	excess, windows := RollingExcess(timeline)
	assert.Zero(t, excess)
	assert.Zero(t, windows)
}

func TestRollingExcessFlagsAWindowOverFortyEightHours(t *testing.T) {
	timeline := []float64{12, 12, 12, 12, 0, 0, 0}
	excess, windows := RollingExcess(timeline)
	assert.Equal(t, float64(0), excess) // exactly 48, not over
	assert.Zero(t, windows)

	timeline[4] = 1
	excess, windows = RollingExcess(timeline)
	assert.Equal(t, float64(1), excess)
	assert.Equal(t, uint32(1), windows)
}

func TestRollingExcessSlidesAcrossWeekendZeroPadding(t *testing.T) {
	timeline := Timeline(2, func(week int, day domain.Weekday) float64 {
		if week == 1 && day == domain.Fri {
			return 12
		}
		if week == 2 && day == domain.Mon {
			return 12
		}
		return 0
	})
	require14 := len(timeline)
	assert.Equal(t, 14, require14)
	// Fri (index 4) and the following Mon (index 7) fall inside one
	// 7-day window; total 24h, well under the cap.
	excess, windows := RollingExcess(timeline)
	assert.Zero(t, excess)
	assert.Zero(t, windows)
}
