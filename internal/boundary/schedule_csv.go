package boundary

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/theatreops/rota-backend/internal/domain"
)

// scheduleCSVColumns is the fixed column order both WriteScheduleCSV and
// ParseScheduleCSV agree on, so a round trip is exact (P5).
var scheduleCSVColumns = []string{"week", "day", "shift", "slot_index", "person"}

// WriteScheduleCSV serialises every occupied slot of a schedule as one
// row per occupant, in canonical (week, day, shift, slot index) order
// so two schedules with the same assignments always serialise
// byte-identically.
func WriteScheduleCSV(w io.Writer, sched *domain.Schedule, staffing *domain.StaffingPlan) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(scheduleCSVColumns); err != nil {
		return err
	}

	weeks := sortedWeekKeys(staffing.Slots)
	for _, week := range weeks {
		for _, day := range domain.WeekdayDays {
			for _, shift := range []domain.Shift{domain.Night, domain.Day, domain.Evening, domain.Admin} {
				count := staffing.Get(week, day, shift)
				for slotIndex := 0; slotIndex < count; slotIndex++ {
					pos := domain.CalendarPosition{Week: week, Day: day}
					for _, person := range sched.SlotOccupants(pos, shift, slotIndex) {
						record := []string{
							strconv.Itoa(week),
							day.String(),
							shift.BoundaryCode(),
							strconv.Itoa(slotIndex),
							person,
						}
						if err := writer.Write(record); err != nil {
							return err
						}
					}
				}
			}
		}
	}
	return writer.Error()
}

// weekendShifts is the pair-shift vocabulary the weekend planner draws
// from — Day and Night, always arity 2, over Sat/Sun rather than the
// weekday model's Mon-Fri Night/Day/Evening/Admin split.
var weekendShifts = []domain.Shift{domain.Day, domain.Night}

// WriteWeekendCSV serialises the weekend planner's schedule in the same
// row shape as WriteScheduleCSV, but scoped to WeekendDays and the pair
// shifts it fills; the weekend planner has no StaffingPlan of its own,
// so the slot count comes straight from each shift's Arity.
func WriteWeekendCSV(w io.Writer, sched *domain.Schedule) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(scheduleCSVColumns); err != nil {
		return err
	}

	weeks := make(map[int]bool)
	for pos := range sched.BySlot {
		weeks[pos.Week] = true
	}
	weekList := make([]int, 0, len(weeks))
	for week := range weeks {
		weekList = append(weekList, week)
	}
	sort.Ints(weekList)

	for _, week := range weekList {
		for _, day := range domain.WeekendDays {
			for _, shift := range weekendShifts {
				pos := domain.CalendarPosition{Week: week, Day: day}
				for slotIndex := 0; slotIndex < shift.Arity(); slotIndex++ {
					for _, person := range sched.SlotOccupants(pos, shift, slotIndex) {
						record := []string{
							strconv.Itoa(week),
							day.String(),
							shift.BoundaryCode(),
							strconv.Itoa(slotIndex),
							person,
						}
						if err := writer.Write(record); err != nil {
							return err
						}
					}
				}
			}
		}
	}
	return writer.Error()
}

// ParseScheduleCSV parses the shape WriteScheduleCSV produces back into
// a Schedule. weeks and seed are supplied by the caller since the
// boundary format carries only assignments, not provenance.
func ParseScheduleCSV(r io.Reader, weeks int, seed uint64) (*domain.Schedule, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &domain.InputError{Reason: fmt.Sprintf("cannot read header: %v", err)}
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, c := range scheduleCSVColumns {
		if _, ok := col[c]; !ok {
			return nil, &domain.InputError{Reason: fmt.Sprintf("missing required column %q", c)}
		}
	}

	sched := domain.NewSchedule(weeks, seed)
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &domain.InputError{Reason: fmt.Sprintf("malformed row: %v", err), Row: row}
		}
		row++

		week, err := strconv.Atoi(record[col["week"]])
		if err != nil {
			return nil, &domain.InputError{Reason: "invalid week value", Row: row, Value: record[col["week"]]}
		}
		day, err := domain.ParseDayToken(record[col["day"]])
		if err != nil {
			return nil, &domain.InputError{Reason: "invalid day value", Row: row, Value: record[col["day"]]}
		}
		shift, err := domain.ShiftFromBoundaryCode(record[col["shift"]])
		if err != nil {
			return nil, &domain.InputError{Reason: "invalid shift code", Row: row, Value: record[col["shift"]]}
		}
		slotIndex, err := strconv.Atoi(record[col["slot_index"]])
		if err != nil {
			return nil, &domain.InputError{Reason: "invalid slot_index value", Row: row, Value: record[col["slot_index"]]}
		}
		person := record[col["person"]]
		if person == "" {
			return nil, &domain.InputError{Reason: "person must not be empty", Row: row}
		}

		sched.Assign(domain.CalendarPosition{Week: week, Day: day}, shift, slotIndex, person)
	}
	return sched, nil
}

func sortedWeekKeys(m map[int]map[domain.Weekday]map[domain.Shift]int) []int {
	weeks := make([]int, 0, len(m))
	for w := range m {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	return weeks
}
