package boundary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theatreops/rota-backend/internal/domain"
)

const validTeamCSV = `name,workdays_per_week,weeks_pattern,prefers_night,no_evening,edo_eligible,is_contractor,available_weekends,max_nights,edo_fixed_day,team
Alice,5,0,1,0,1,0,1,,,blue
Bob,4,0,0,1,0,1,0,2,Wed,red
`

func TestParseTeamCSVValidInput(t *testing.T) {
	team, err := ParseTeamCSV(strings.NewReader(validTeamCSV))
	require.NoError(t, err)
	require.Len(t, team.People, 2)

	alice := team.ByName()["Alice"]
	require.NotNil(t, alice)
	assert.True(t, alice.PrefersNight())
	assert.Equal(t, domain.NoMaxNights, alice.MaxNights())
	assert.Equal(t, "blue", alice.Team())

	bob := team.ByName()["Bob"]
	require.NotNil(t, bob)
	assert.True(t, bob.IsContractor())
	assert.Equal(t, uint32(2), bob.MaxNights())
	require.NotNil(t, bob.EdoFixedDay())
	assert.Equal(t, domain.Wed, *bob.EdoFixedDay())
}

func TestParseTeamCSVRejectsMissingRequiredColumn(t *testing.T) {
	csv := "name,workdays_per_week\nAlice,5\n"
	_, err := ParseTeamCSV(strings.NewReader(csv))
	require.Error(t, err)
}

func TestParseTeamCSVRejectsDuplicateName(t *testing.T) {
	csv := `name,workdays_per_week,weeks_pattern,prefers_night,no_evening,edo_eligible,is_contractor,available_weekends
Alice,5,0,0,0,0,0,0
Alice,4,0,0,0,0,0,0
`
	_, err := ParseTeamCSV(strings.NewReader(csv))
	require.Error(t, err)
	var inputErr *domain.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, inputErr.Reason, "Alice")
}

func TestParseTeamCSVFailsLoudlyOnBadNumericToken(t *testing.T) {
	csv := `name,workdays_per_week,weeks_pattern,prefers_night,no_evening,edo_eligible,is_contractor,available_weekends
Alice,five,0,0,0,0,0,0
`
	_, err := ParseTeamCSV(strings.NewReader(csv))
	require.Error(t, err)
	var inputErr *domain.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "five", inputErr.Value)
	assert.Equal(t, 2, inputErr.Row)
}

func TestParseTeamCSVRejectsEmptyName(t *testing.T) {
	csv := `name,workdays_per_week,weeks_pattern,prefers_night,no_evening,edo_eligible,is_contractor,available_weekends
,5,0,0,0,0,0,0
`
	_, err := ParseTeamCSV(strings.NewReader(csv))
	require.Error(t, err)
}

func TestWriteTeamCSVRoundTripsThroughParseTeamCSV(t *testing.T) {
	team, err := ParseTeamCSV(strings.NewReader(validTeamCSV))
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, WriteTeamCSV(&buf, team))

	reparsed, err := ParseTeamCSV(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, reparsed.People, len(team.People))

	for _, name := range []string{"Alice", "Bob"} {
		orig := team.ByName()[name]
		again := reparsed.ByName()[name]
		require.NotNil(t, again)
		assert.Equal(t, orig.WorkdaysPerWeek(), again.WorkdaysPerWeek())
		assert.Equal(t, orig.PrefersNight(), again.PrefersNight())
		assert.Equal(t, orig.NoEvening(), again.NoEvening())
		assert.Equal(t, orig.EdoEligible(), again.EdoEligible())
		assert.Equal(t, orig.IsContractor(), again.IsContractor())
		assert.Equal(t, orig.AvailableWeekends(), again.AvailableWeekends())
		assert.Equal(t, orig.MaxNights(), again.MaxNights())
		assert.Equal(t, orig.Team(), again.Team())
	}
}
