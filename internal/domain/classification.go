package domain

// OvernightRange is the reduced overnight session (18:00 D−1 → 06:00 D):
// highest high, lowest low, and their midpoint.
type OvernightRange struct {
	High float64
	Low  float64
	Mid  float64
}

// NewOvernightRange derives the midpoint from high and low.
func NewOvernightRange(high, low float64) OvernightRange {
	return OvernightRange{High: high, Low: low, Mid: (high + low) / 2}
}

// WindowStats reduces the 06:00–09:00 classification window: lowest low,
// highest high, and the close of the window's final bar (the 09:00 close).
type WindowStats struct {
	MinLow  float64
	MaxHigh float64
	Close   float64
}

// DayClassification is the scenario assignment for one session date.
// Exactly one scenario in 1..17 per date with a non-empty overnight window
// and a non-empty classification window.
type DayClassification struct {
	Symbol      string
	SessionDate Date
	Scenario    int
	Range       OvernightRange
	Window      WindowStats
}
