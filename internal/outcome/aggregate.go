package outcome

import (
	"overnight-range-lab/internal/domain"
)

// Aggregate folds per-day records into per-scenario statistics. The result
// always contains all 17 scenarios; scenarios with no days carry zero counts
// and zero percentages. Per-scenario percentages use the scenario's day count
// as the denominator even when some of those days are missing an outcome or
// extension window, matching how PctOfTotal uses the full classified count.
func Aggregate(records []domain.OutcomeRecord) map[int]*domain.ScenarioAggregate {
	aggs := make(map[int]*domain.ScenarioAggregate, domain.ScenarioCount)
	for s := 1; s <= domain.ScenarioCount; s++ {
		aggs[s] = &domain.ScenarioAggregate{Scenario: s}
	}

	total := 0
	for _, rec := range records {
		agg, ok := aggs[rec.Scenario]
		if !ok {
			continue
		}
		total++
		agg.Days++

		if domain.IsBullScenario(rec.Scenario) && rec.HasOutcomeWindow {
			if rec.StayedAboveMid {
				agg.DaysAboveMid++
			}
			if rec.StayedAboveMorningLow {
				agg.DaysAboveMorningLow++
			}
			if rec.StayedAboveSessionLow {
				agg.DaysAboveSessionLow++
			}
		}
		if domain.IsBearScenario(rec.Scenario) && rec.HasOutcomeWindow {
			if rec.StayedBelowMid {
				agg.DaysBelowMid++
			}
			if rec.StayedBelowMorningHigh {
				agg.DaysBelowMorningHigh++
			}
			if rec.StayedBelowSessionHigh {
				agg.DaysBelowSessionHigh++
			}
		}
		if rec.HasExtensionWindow {
			if domain.IsBullScenario(rec.Scenario) && rec.MadeNewHigh {
				agg.DaysNewHigh++
			}
			if domain.IsBearScenario(rec.Scenario) && rec.MadeNewLow {
				agg.DaysNewLow++
			}
		}
	}

	for _, agg := range aggs {
		if total > 0 {
			agg.PctOfTotal = float64(agg.Days) / float64(total) * 100
		}
		if agg.Days == 0 {
			continue
		}
		n := float64(agg.Days)
		agg.PctAboveMid = float64(agg.DaysAboveMid) / n * 100
		agg.PctAboveMorningLow = float64(agg.DaysAboveMorningLow) / n * 100
		agg.PctAboveSessionLow = float64(agg.DaysAboveSessionLow) / n * 100
		agg.PctNewHigh = float64(agg.DaysNewHigh) / n * 100
		agg.PctBelowMid = float64(agg.DaysBelowMid) / n * 100
		agg.PctBelowMorningHigh = float64(agg.DaysBelowMorningHigh) / n * 100
		agg.PctBelowSessionHigh = float64(agg.DaysBelowSessionHigh) / n * 100
		agg.PctNewLow = float64(agg.DaysNewLow) / n * 100
	}

	return aggs
}
