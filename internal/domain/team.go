package domain

import "fmt"

// TeamInput is the frozen input to a solve: the full roster. It is shared
// by reference across every concurrent attempt and never mutated after
// Validate succeeds.
type TeamInput struct {
	People []*Person
}

// Validate enforces C1's ingest-time checks: non-empty team and no
// duplicate names. Per-person range checks already happened in
// NewPerson, but a TeamInput can be assembled from already-valid Person
// values built by a different path (e.g. tests), so duplicates are
// re-checked here.
func (t TeamInput) Validate() error {
	if len(t.People) == 0 {
		return &InputError{Reason: "team must not be empty"}
	}

	seen := make(map[string]bool, len(t.People))
	for _, p := range t.People {
		if seen[p.Name()] {
			return &InputError{Reason: fmt.Sprintf("duplicate person name %q", p.Name())}
		}
		seen[p.Name()] = true
	}
	return nil
}

// ByName indexes the roster for O(1) lookup.
func (t TeamInput) ByName() map[string]*Person {
	m := make(map[string]*Person, len(t.People))
	for _, p := range t.People {
		m[p.Name()] = p
	}
	return m
}
