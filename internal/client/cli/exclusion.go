package cli

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

var errPastDate = errors.New("past dates cannot be selected")

// DateSet is the exclusion-date selection being edited. Toggling the same
// date twice restores the original selection.
type DateSet struct {
	dates map[string]bool
}

func NewDateSet(dates []string) *DateSet {
	s := &DateSet{dates: make(map[string]bool, len(dates))}
	for _, d := range dates {
		s.dates[d] = true
	}
	return s
}

// Toggle adds the date to the selection, or removes it if already selected.
// The date must be a valid YYYY-MM-DD value not before today.
func (s *DateSet) Toggle(date string, today time.Time) error {
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if parsed.Before(day) {
		return errPastDate
	}

	if s.dates[date] {
		delete(s.dates, date)
	} else {
		s.dates[date] = true
	}
	return nil
}

func (s *DateSet) Contains(date string) bool {
	return s.dates[date]
}

// Dates returns the selection sorted ascending.
func (s *DateSet) Dates() []string {
	out := make([]string, 0, len(s.dates))
	for d := range s.dates {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
