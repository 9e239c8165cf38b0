// Package classify assigns each session's 06:00–09:00 price action to one
// of 17 mutually exclusive scenarios relative to the overnight range.
package classify

import (
	"errors"
	"fmt"

	"overnight-range-lab/internal/domain"
)

var (
	// ErrInsufficientData is returned when classification is attempted
	// without an overnight range or with an empty classification window.
	ErrInsufficientData = errors.New("insufficient data for classification")

	// ErrUnclassified means no scenario rule matched. The rule table is
	// exhaustive for any consistent input (minLow <= close <= maxHigh),
	// so this indicates a programming defect, not a data condition.
	ErrUnclassified = errors.New("no scenario rule matched")
)

// inputs are the six scalars the decision table operates on.
type inputs struct {
	low, mid, high         float64 // overnight range
	minLow, maxHigh, close float64 // classification window
}

// rule is one entry of the ordered decision table.
type rule struct {
	scenario int
	match    func(in inputs) bool
}

// rules is the fixed-priority decision table; the first match wins.
// The evaluation order resolves every overlap: 3 before 2 makes 2 the
// residual of "held low, closed above high"; 6 before 5 likewise on the
// bear side; 17 before 15/16 so a day that never left the range is
// "inside" rather than I/J.
var rules = []rule{
	{1, func(in inputs) bool { return in.minLow < in.low && in.close > in.mid }},
	{3, func(in inputs) bool { return in.minLow >= in.mid && in.close > in.high }},
	{2, func(in inputs) bool { return in.minLow >= in.low && in.close > in.high }},

	{4, func(in inputs) bool { return in.maxHigh > in.high && in.close < in.mid }},
	{6, func(in inputs) bool { return in.maxHigh <= in.mid && in.close < in.low }},
	{5, func(in inputs) bool { return in.maxHigh <= in.high && in.close < in.low }},

	{7, func(in inputs) bool { return in.minLow < in.low && in.close <= in.mid }},
	{8, func(in inputs) bool {
		return in.minLow >= in.low && in.minLow < in.mid && in.close > in.mid && in.close <= in.high
	}},
	{9, func(in inputs) bool { return in.minLow >= in.low && in.minLow < in.mid && in.close <= in.mid }},
	{10, func(in inputs) bool { return in.minLow >= in.mid && in.close < in.mid }},
	{11, func(in inputs) bool { return in.minLow >= in.mid && in.close >= in.mid && in.close < in.high }},

	{12, func(in inputs) bool { return in.maxHigh > in.high && in.close >= in.mid }},
	{13, func(in inputs) bool { return in.maxHigh > in.high && in.close >= in.low && in.close < in.mid }},
	{14, func(in inputs) bool { return in.maxHigh > in.high && in.close < in.low }},

	{17, func(in inputs) bool {
		return in.minLow >= in.low && in.maxHigh <= in.high && in.close >= in.low && in.close <= in.high
	}},

	{15, func(in inputs) bool { return in.maxHigh > in.mid && in.maxHigh <= in.high && in.close >= in.low }},
	{16, func(in inputs) bool { return in.maxHigh <= in.mid && in.close >= in.low }},
}

// Stats reduces the classification window to its three scalars. ok is
// false when the window is empty.
func Stats(bars []*domain.MinuteBar) (domain.WindowStats, bool) {
	if len(bars) == 0 {
		return domain.WindowStats{}, false
	}

	ws := domain.WindowStats{
		MinLow:  bars[0].Low,
		MaxHigh: bars[0].High,
		Close:   bars[len(bars)-1].Close,
	}
	for _, b := range bars[1:] {
		if b.Low < ws.MinLow {
			ws.MinLow = b.Low
		}
		if b.High > ws.MaxHigh {
			ws.MaxHigh = b.High
		}
	}
	return ws, true
}

// Classify reduces the classification-window bars and assigns a scenario.
// Returns ErrInsufficientData when rng is nil or bars is empty.
func Classify(rng *domain.OvernightRange, bars []*domain.MinuteBar) (int, domain.WindowStats, error) {
	if rng == nil {
		return 0, domain.WindowStats{}, fmt.Errorf("%w: overnight range absent", ErrInsufficientData)
	}
	ws, ok := Stats(bars)
	if !ok {
		return 0, domain.WindowStats{}, fmt.Errorf("%w: empty classification window", ErrInsufficientData)
	}

	scenario, err := FromStats(*rng, ws)
	return scenario, ws, err
}

// FromStats assigns a scenario from already-reduced window stats.
func FromStats(rng domain.OvernightRange, ws domain.WindowStats) (int, error) {
	in := inputs{
		low:     rng.Low,
		mid:     rng.Mid,
		high:    rng.High,
		minLow:  ws.MinLow,
		maxHigh: ws.MaxHigh,
		close:   ws.Close,
	}

	for _, r := range rules {
		if r.match(in) {
			return r.scenario, nil
		}
	}

	return 0, fmt.Errorf("%w: L=%g M=%g H=%g min=%g max=%g close=%g",
		ErrUnclassified, in.low, in.mid, in.high, in.minLow, in.maxHigh, in.close)
}
