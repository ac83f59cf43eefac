// Package boundary implements the CSV serialisation forms named at the
// engine's edges: team rosters in, schedules out and back.
package boundary

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/theatreops/rota-backend/internal/domain"
)

var requiredNumericColumns = []string{
	"workdays_per_week", "weeks_pattern", "prefers_night", "no_evening",
	"edo_eligible", "is_contractor", "available_weekends",
}

// ParseTeamCSV reads a roster in the boundary CSV shape: a required
// `name` column, the required 0/1-encoded numeric columns, and the
// optional `max_nights`, `edo_fixed_day`, `team` columns. Any malformed
// numeric token fails loudly with its row index and the offending
// value rather than silently defaulting.
func ParseTeamCSV(r io.Reader) (domain.TeamInput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return domain.TeamInput{}, &domain.InputError{Reason: fmt.Sprintf("cannot read header: %v", err)}
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	if _, ok := col["name"]; !ok {
		return domain.TeamInput{}, &domain.InputError{Reason: "missing required column \"name\""}
	}
	for _, c := range requiredNumericColumns {
		if _, ok := col[c]; !ok {
			return domain.TeamInput{}, &domain.InputError{Reason: fmt.Sprintf("missing required column %q", c)}
		}
	}

	var people []*domain.Person
	seen := make(map[string]bool)
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.TeamInput{}, &domain.InputError{Reason: fmt.Sprintf("malformed row: %v", err), Row: row}
		}
		row++

		name := record[col["name"]]
		if name == "" {
			return domain.TeamInput{}, &domain.InputError{Reason: "person name must not be empty", Row: row}
		}
		if seen[name] {
			return domain.TeamInput{}, &domain.InputError{Reason: fmt.Sprintf("duplicate person name %q", name), Row: row}
		}
		seen[name] = true

		workdays, err := parseInt(record, col, "workdays_per_week", row)
		if err != nil {
			return domain.TeamInput{}, err
		}
		// weeks_pattern is validated but not yet consumed by the engine;
		// no MODULE in the solve path reads a per-person recurrence.
		if _, err := parseInt(record, col, "weeks_pattern", row); err != nil {
			return domain.TeamInput{}, err
		}
		prefersNight, err := parseBool(record, col, "prefers_night", row)
		if err != nil {
			return domain.TeamInput{}, err
		}
		noEvening, err := parseBool(record, col, "no_evening", row)
		if err != nil {
			return domain.TeamInput{}, err
		}
		edoEligible, err := parseBool(record, col, "edo_eligible", row)
		if err != nil {
			return domain.TeamInput{}, err
		}
		isContractor, err := parseBool(record, col, "is_contractor", row)
		if err != nil {
			return domain.TeamInput{}, err
		}
		availableWeekends, err := parseBool(record, col, "available_weekends", row)
		if err != nil {
			return domain.TeamInput{}, err
		}

		params := domain.PersonParams{
			Name:              name,
			WorkdaysPerWeek:   workdays,
			PrefersNight:      prefersNight,
			NoEvening:         noEvening,
			EdoEligible:       edoEligible,
			IsContractor:      isContractor,
			AvailableWeekends: availableWeekends,
		}

		if idx, ok := col["max_nights"]; ok && record[idx] != "" {
			v, err := strconv.ParseUint(record[idx], 10, 32)
			if err != nil {
				return domain.TeamInput{}, &domain.InputError{Reason: "invalid max_nights value", Row: row, Value: record[idx]}
			}
			params.HasMaxNights = true
			params.MaxNights = uint32(v)
		}
		if idx, ok := col["edo_fixed_day"]; ok && record[idx] != "" {
			d, err := domain.ParseDayToken(record[idx])
			if err != nil {
				return domain.TeamInput{}, &domain.InputError{Reason: "invalid edo_fixed_day value", Row: row, Value: record[idx]}
			}
			params.EdoFixedDay = &d
		}
		if idx, ok := col["team"]; ok {
			params.Team = record[idx]
		}

		p, err := domain.NewPerson(params)
		if err != nil {
			return domain.TeamInput{}, err
		}
		people = append(people, p)
	}

	team := domain.TeamInput{People: people}
	if err := team.Validate(); err != nil {
		return domain.TeamInput{}, err
	}
	return team, nil
}

// teamCSVColumns is the fixed column order WriteTeamCSV emits in, a
// superset of requiredNumericColumns plus the optional columns
// ParseTeamCSV also understands.
var teamCSVColumns = []string{
	"name", "workdays_per_week", "weeks_pattern", "prefers_night", "no_evening",
	"edo_eligible", "is_contractor", "available_weekends", "max_nights", "edo_fixed_day", "team",
}

// WriteTeamCSV serialises a roster back into the shape ParseTeamCSV
// reads, for fixture generation (C15) and so P5-style round trips can
// be exercised against team input too.
func WriteTeamCSV(w io.Writer, team domain.TeamInput) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(teamCSVColumns); err != nil {
		return err
	}

	for _, p := range team.People {
		maxNights := ""
		if p.MaxNights() != domain.NoMaxNights {
			maxNights = strconv.FormatUint(uint64(p.MaxNights()), 10)
		}
		edoFixedDay := ""
		if d := p.EdoFixedDay(); d != nil {
			edoFixedDay = d.String()
		}

		record := []string{
			p.Name(),
			strconv.Itoa(p.WorkdaysPerWeek()),
			"0",
			boolToken(p.PrefersNight()),
			boolToken(p.NoEvening()),
			boolToken(p.EdoEligible()),
			boolToken(p.IsContractor()),
			boolToken(p.AvailableWeekends()),
			maxNights,
			edoFixedDay,
			p.Team(),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func boolToken(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func parseInt(record []string, col map[string]int, name string, row int) (int, error) {
	idx := col[name]
	if idx >= len(record) {
		return 0, &domain.InputError{Reason: fmt.Sprintf("missing value for %q", name), Row: row}
	}
	v, err := strconv.Atoi(record[idx])
	if err != nil {
		return 0, &domain.InputError{Reason: fmt.Sprintf("invalid %s value", name), Row: row, Value: record[idx]}
	}
	return v, nil
}

func parseBool(record []string, col map[string]int, name string, row int) (bool, error) {
	idx := col[name]
	if idx >= len(record) {
		return false, &domain.InputError{Reason: fmt.Sprintf("missing value for %q", name), Row: row}
	}
	switch record[idx] {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, &domain.InputError{Reason: fmt.Sprintf("invalid %s value, expected 0 or 1", name), Row: row, Value: record[idx]}
	}
}
