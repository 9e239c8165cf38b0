// Package outcome measures post-classification behavior: per-day booleans
// over the 09:00–16:00 outcome window and the 09:00–11:30 extension window,
// folded into per-scenario counts and percentages.
package outcome

import (
	"overnight-range-lab/internal/domain"
)

// extremes reduces a bar window to its lowest low and highest high.
func extremes(bars []*domain.MinuteBar) (minLow, maxHigh float64, ok bool) {
	if len(bars) == 0 {
		return 0, 0, false
	}
	minLow = bars[0].Low
	maxHigh = bars[0].High
	for _, b := range bars[1:] {
		if b.Low < minLow {
			minLow = b.Low
		}
		if b.High > maxHigh {
			maxHigh = b.High
		}
	}
	return minLow, maxHigh, true
}

// ComputeRecord derives the outcome booleans for one classified day.
// Both the bull and bear sides are computed; Aggregate selects the side
// (or both, for scenario 17) the day's scenario reports.
//
// The 18:00–09:00 session extremes combine the overnight range with the
// classification window: sessionLow = min(L, min06), sessionHigh =
// max(H, max06). The extension booleans compare against those effective
// levels, so a "new high" means price exceeded everything seen since 18:00.
func ComputeRecord(c *domain.DayClassification, outcomeBars, extensionBars []*domain.MinuteBar) domain.OutcomeRecord {
	rec := domain.OutcomeRecord{
		Symbol:      c.Symbol,
		SessionDate: c.SessionDate,
		Scenario:    c.Scenario,
	}

	sessionLow := c.Range.Low
	if c.Window.MinLow < sessionLow {
		sessionLow = c.Window.MinLow
	}
	sessionHigh := c.Range.High
	if c.Window.MaxHigh > sessionHigh {
		sessionHigh = c.Window.MaxHigh
	}

	if minOut, maxOut, ok := extremes(outcomeBars); ok {
		rec.HasOutcomeWindow = true
		rec.StayedAboveMid = minOut >= c.Range.Mid
		rec.StayedAboveMorningLow = minOut >= c.Window.MinLow
		rec.StayedAboveSessionLow = minOut >= sessionLow
		rec.StayedBelowMid = maxOut <= c.Range.Mid
		rec.StayedBelowMorningHigh = maxOut <= c.Window.MaxHigh
		rec.StayedBelowSessionHigh = maxOut <= sessionHigh
	}

	if minExt, maxExt, ok := extremes(extensionBars); ok {
		rec.HasExtensionWindow = true
		rec.MadeNewHigh = maxExt > sessionHigh
		rec.MadeNewLow = minExt < sessionLow
	}

	return rec
}
