package domain

// OutcomeRecord carries the per-day outcome booleans for one classified day.
// The 09:00–16:00 fields are meaningful only when HasOutcomeWindow is set,
// the 09:00–11:30 fields only when HasExtensionWindow is set. Both sides are
// always computed; the aggregator selects the applicable side per scenario.
type OutcomeRecord struct {
	Symbol      string
	SessionDate Date
	Scenario    int

	// 09:00–16:00 window.
	HasOutcomeWindow       bool
	StayedAboveMid         bool // session low held at or above overnight mid
	StayedAboveMorningLow  bool // session low held at or above the 06:00–09:00 low
	StayedAboveSessionLow  bool // session low held at or above the 18:00–09:00 low
	StayedBelowMid         bool
	StayedBelowMorningHigh bool
	StayedBelowSessionHigh bool

	// 09:00–11:30 window.
	HasExtensionWindow bool
	MadeNewHigh        bool // traded above the 18:00–09:00 high
	MadeNewLow         bool // traded below the 18:00–09:00 low
}

// ScenarioAggregate is the per-scenario statistic block for a query range.
// Percentages are full precision; display rounding happens in reporting.
// Bull-side percentages are zero for pure bear scenarios and vice versa;
// scenario 17 populates both sides.
type ScenarioAggregate struct {
	Scenario   int
	Days       int
	PctOfTotal float64 // share of all classified days across the 17 scenarios

	// Bull side (scenarios 1–3, 7–11, 17).
	DaysAboveMid        int
	PctAboveMid         float64
	DaysAboveMorningLow int
	PctAboveMorningLow  float64
	DaysAboveSessionLow int
	PctAboveSessionLow  float64
	DaysNewHigh         int
	PctNewHigh          float64

	// Bear side (scenarios 4–6, 12–16, 17).
	DaysBelowMid         int
	PctBelowMid          float64
	DaysBelowMorningHigh int
	PctBelowMorningHigh  float64
	DaysBelowSessionHigh int
	PctBelowSessionHigh  float64
	DaysNewLow           int
	PctNewLow            float64
}

// AggregateRecord is a persisted ScenarioAggregate keyed by the analysis
// range it was computed over.
type AggregateRecord struct {
	Symbol     string
	RangeStart Date
	RangeEnd   Date
	ScenarioAggregate
}
