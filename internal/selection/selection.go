package selection

import (
	"fmt"

	"github.com/chris/gdpdash/pkg/models"
)

// InvalidRangeError is returned by SetRange when min is after max.
// The previous selection is kept.
type InvalidRangeError struct {
	Min int
	Max int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid year range: start %d is after end %d", e.Min, e.Max)
}

// Listener is called after every successful change with the new selection
type Listener func(models.Selection)

// State holds the current country set and year range for one session.
// Both parts are replaced wholesale by their setters, never merged.
// State is not safe for concurrent use.
type State struct {
	table     *models.Table
	countries []string
	rng       models.Range
	listeners []Listener
}

// New creates a state selecting every country over the full year range
func New(table *models.Table) *State {
	s := &State{table: table}
	s.countries = table.Countries()
	s.rng = models.Range{Min: table.MinYear(), Max: table.MaxYear()}
	return s
}

// Subscribe registers fn to be called after each change
func (s *State) Subscribe(fn Listener) {
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns an independent copy of the current selection
func (s *State) Snapshot() models.Selection {
	countries := make([]string, len(s.countries))
	copy(countries, s.countries)
	return models.Selection{Countries: countries, Range: s.rng}
}

// SetCountries replaces the country set. Unknown names and duplicates are
// dropped; the stored order follows the table.
func (s *State) SetCountries(countries []string) {
	want := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		want[c] = struct{}{}
	}

	kept := make([]string, 0, len(want))
	for _, c := range s.table.Countries() {
		if _, ok := want[c]; ok {
			kept = append(kept, c)
		}
	}

	s.countries = kept
	s.notify()
}

// SetRange replaces the year range. Bounds outside the table are clamped
// into [MinYear, MaxYear]; min > max is rejected with *InvalidRangeError.
func (s *State) SetRange(min, max int) error {
	if min > max {
		return &InvalidRangeError{Min: min, Max: max}
	}

	s.rng = models.Range{
		Min: s.clamp(min),
		Max: s.clamp(max),
	}
	s.notify()
	return nil
}

// Reset restores the defaults: all countries, full range
func (s *State) Reset() {
	s.countries = s.table.Countries()
	s.rng = models.Range{Min: s.table.MinYear(), Max: s.table.MaxYear()}
	s.notify()
}

func (s *State) clamp(year int) int {
	if year < s.table.MinYear() {
		return s.table.MinYear()
	}
	if year > s.table.MaxYear() {
		return s.table.MaxYear()
	}
	return year
}

func (s *State) notify() {
	if len(s.listeners) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range s.listeners {
		fn(snap)
	}
}
