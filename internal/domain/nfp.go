package domain

import "time"

// Regime splits sessions by where the 09:00 close sits relative to the
// month's NFP release price.
type Regime string

const (
	RegimeAbove Regime = "above"
	RegimeBelow Regime = "below"
)

// NFPRelease is the effective non-farm-payroll release for one month:
// the first Friday of the month, or the second when the first has no bar
// data, with the close of the 08:30 ET bar as release price.
type NFPRelease struct {
	Symbol      string
	Year        int
	Month       time.Month
	ReleaseDate Date
	Price       float64
}
