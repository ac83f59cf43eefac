package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustPerson(t *testing.T, name string) *Person {
	p, err := NewPerson(PersonParams{Name: name, WorkdaysPerWeek: 5})
	require.NoError(t, err)
	return p
}

func TestTeamInputRejectsEmptyRoster(t *testing.T) {
	err := TeamInput{}.Validate()
	require.Error(t, err)
}

func TestTeamInputRejectsDuplicateNames(t *testing.T) {
	team := TeamInput{People: []*Person{mustPerson(t, "Alice"), mustPerson(t, "Alice")}}
	err := team.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "Alice")
}

func TestTeamInputByNameIndexesEveryPerson(t *testing.T) {
	team := TeamInput{People: []*Person{mustPerson(t, "Alice"), mustPerson(t, "Bob")}}
	byName := team.ByName()
	require.Len(t, byName, 2)
	require.Equal(t, "Alice", byName["Alice"].Name())
}
