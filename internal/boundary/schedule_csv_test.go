package boundary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theatreops/rota-backend/internal/domain"
)

func buildTinySchedule() (*domain.Schedule, *domain.StaffingPlan) {
	staffing := domain.NewStaffingPlan()
	staffing.Set(1, domain.Mon, domain.Day, 1)
	staffing.Set(1, domain.Mon, domain.Night, 1)

	sched := domain.NewSchedule(1, 42)
	sched.StaffingPlan = staffing
	pos := domain.CalendarPosition{Week: 1, Day: domain.Mon}
	sched.Assign(pos, domain.Day, 0, "Alice")
	sched.Assign(pos, domain.Day, 0, "Bob")
	sched.Assign(pos, domain.Night, 0, "Carol")
	return sched, staffing
}

func TestWriteScheduleCSVRoundTripsThroughParseScheduleCSV(t *testing.T) {
	sched, staffing := buildTinySchedule()

	var buf strings.Builder
	require.NoError(t, WriteScheduleCSV(&buf, sched, staffing))

	reparsed, err := ParseScheduleCSV(strings.NewReader(buf.String()), sched.Weeks, sched.Seed)
	require.NoError(t, err)

	pos := domain.CalendarPosition{Week: 1, Day: domain.Mon}
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, reparsed.SlotOccupants(pos, domain.Day, 0))
	assert.ElementsMatch(t, []string{"Carol"}, reparsed.SlotOccupants(pos, domain.Night, 0))
}

func TestWriteScheduleCSVOrdersRowsByWeekDayShiftSlot(t *testing.T) {
	sched, staffing := buildTinySchedule()

	var buf strings.Builder
	require.NoError(t, WriteScheduleCSV(&buf, sched, staffing))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4) // header + 3 occupants
	assert.Equal(t, "week,day,shift,slot_index,person", lines[0])
	// Night precedes Day in the write order (Night, Day, Evening, Admin).
	assert.Contains(t, lines[1], "N,")
}

func TestParseScheduleCSVRejectsMissingColumn(t *testing.T) {
	csv := "week,day,shift,slot_index\n1,Mon,J,0\n"
	_, err := ParseScheduleCSV(strings.NewReader(csv), 1, 1)
	require.Error(t, err)
}

func TestParseScheduleCSVRejectsInvalidDay(t *testing.T) {
	csv := "week,day,shift,slot_index,person\n1,Someday,J,0,Alice\n"
	_, err := ParseScheduleCSV(strings.NewReader(csv), 1, 1)
	require.Error(t, err)
	var inputErr *domain.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "Someday", inputErr.Value)
}

func TestParseScheduleCSVRejectsInvalidShiftCode(t *testing.T) {
	csv := "week,day,shift,slot_index,person\n1,Mon,X,0,Alice\n"
	_, err := ParseScheduleCSV(strings.NewReader(csv), 1, 1)
	require.Error(t, err)
	var inputErr *domain.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "X", inputErr.Value)
}

func TestParseScheduleCSVRejectsEmptyPerson(t *testing.T) {
	csv := "week,day,shift,slot_index,person\n1,Mon,J,0,\n"
	_, err := ParseScheduleCSV(strings.NewReader(csv), 1, 1)
	require.Error(t, err)
}

func TestParseScheduleCSVRejectsBadWeekOrSlotIndex(t *testing.T) {
	badWeek := "week,day,shift,slot_index,person\nfirst,Mon,J,0,Alice\n"
	_, err := ParseScheduleCSV(strings.NewReader(badWeek), 1, 1)
	require.Error(t, err)

	badSlot := "week,day,shift,slot_index,person\n1,Mon,J,zero,Alice\n"
	_, err = ParseScheduleCSV(strings.NewReader(badSlot), 1, 1)
	require.Error(t, err)
}
