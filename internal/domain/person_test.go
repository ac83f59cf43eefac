package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPersonRejectsEmptyName(t *testing.T) {
	_, err := NewPerson(PersonParams{WorkdaysPerWeek: 5})
	require.Error(t, err)
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
}

func TestNewPersonRejectsOutOfRangeWorkdays(t *testing.T) {
	_, err := NewPerson(PersonParams{Name: "Alice", WorkdaysPerWeek: 6})
	require.Error(t, err)
}

func TestNewPersonDefaultsToNoMaxNights(t *testing.T) {
	p, err := NewPerson(PersonParams{Name: "Alice", WorkdaysPerWeek: 5})
	require.NoError(t, err)
	assert.Equal(t, NoMaxNights, p.MaxNights())
}

func TestNewPersonHonoursExplicitZeroMaxNights(t *testing.T) {
	p, err := NewPerson(PersonParams{Name: "Alice", WorkdaysPerWeek: 5, HasMaxNights: true, MaxNights: 0})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), p.MaxNights())
}

func TestCohortKeyModes(t *testing.T) {
	p, err := NewPerson(PersonParams{Name: "Alice", WorkdaysPerWeek: 4, Team: "blue"})
	require.NoError(t, err)

	assert.Equal(t, "*", p.CohortKey(CohortNone))
	assert.Equal(t, "wd=4", p.CohortKey(CohortByWorkdays))
	assert.Equal(t, "blue", p.CohortKey(CohortByTeam))
}

func TestCohortKeyByTeamFallsBackToUntagged(t *testing.T) {
	p, err := NewPerson(PersonParams{Name: "Bob", WorkdaysPerWeek: 4})
	require.NoError(t, err)
	assert.Equal(t, "untagged", p.CohortKey(CohortByTeam))
}
