// Package session resolves the fixed exchange-local time windows of a
// trading session against civil session dates. All wall-clock arithmetic
// happens in America/New_York so the 18:00–06:00 overnight span stays
// correct across DST transitions.
package session

import (
	"fmt"
	"time"

	"overnight-range-lab/internal/domain"
)

// ET is the exchange-local zone used for every window boundary.
var ET = mustLocation("America/New_York")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load location %s: %v", name, err))
	}
	return loc
}

// Window names one of the fixed session windows.
type Window string

const (
	// WindowOvernight spans 18:00 ET on D−1 through 06:00 ET on D.
	WindowOvernight Window = "overnight"
	// WindowClassification spans 06:00–09:00 ET on D.
	WindowClassification Window = "classification"
	// WindowOutcome spans 09:00–16:00 ET on D.
	WindowOutcome Window = "outcome"
	// WindowExtension spans 09:00–11:30 ET on D.
	WindowExtension Window = "extension"
)

// Bounds resolves w against session date d and returns the absolute
// [start, end) instant pair.
func Bounds(w Window, d domain.Date) (start, end time.Time, err error) {
	switch w {
	case WindowOvernight:
		return d.AddDays(-1).At(18, 0, ET), d.At(6, 0, ET), nil
	case WindowClassification:
		return d.At(6, 0, ET), d.At(9, 0, ET), nil
	case WindowOutcome:
		return d.At(9, 0, ET), d.At(16, 0, ET), nil
	case WindowExtension:
		return d.At(9, 0, ET), d.At(11, 30, ET), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown session window %q", w)
	}
}

// Dates returns the inclusive list of session dates from start through end.
// A single day is the start==end case.
func Dates(start, end domain.Date) []domain.Date {
	if end.Before(start) {
		return nil
	}
	var dates []domain.Date
	for d := start; !end.Before(d); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}

// TZAbbrev returns the EDT/EST marker in effect at t.
func TZAbbrev(t time.Time) string {
	abbrev := t.In(ET).Format("MST")
	if abbrev == "" {
		return "ET"
	}
	return abbrev
}
