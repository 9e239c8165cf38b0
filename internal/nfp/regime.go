package nfp

import (
	"context"
	"errors"
	"fmt"

	"overnight-range-lab/internal/analysis"
	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/outcome"
)

// ClassifyRegime compares a session's 09:00 close to the month's release
// price. ok is false on an exact tie, which belongs to neither regime.
func ClassifyRegime(close09, releasePrice float64) (domain.Regime, bool) {
	switch {
	case close09 > releasePrice:
		return domain.RegimeAbove, true
	case close09 < releasePrice:
		return domain.RegimeBelow, true
	default:
		return "", false
	}
}

// SplitResult is the scenario statistic pair for one date range, one block
// per regime. NoReleaseDays counts classified days whose month had no
// resolvable release or whose 09:00 close tied the release price exactly.
type SplitResult struct {
	Symbol string
	Start  domain.Date
	End    domain.Date

	Above map[int]*domain.ScenarioAggregate
	Below map[int]*domain.ScenarioAggregate

	AboveDays     int
	BelowDays     int
	NoReleaseDays int
}

// RegimeResult is the single-regime variant: the usual aggregates plus the
// matching dates, restricted to days in one regime.
type RegimeResult struct {
	Symbol string
	Regime domain.Regime
	Start  domain.Date
	End    domain.Date

	Aggregates      map[int]*domain.ScenarioAggregate
	DatesByScenario map[int][]domain.Date

	Days          int
	NoReleaseDays int
}

// Analyzer runs the scenario pipeline and splits its per-day records by
// NFP regime.
type Analyzer struct {
	runner  *analysis.Runner
	service *Service
}

// NewAnalyzer creates a regime analyzer over an analysis runner and a
// release service.
func NewAnalyzer(runner *analysis.Runner, service *Service) *Analyzer {
	return &Analyzer{runner: runner, service: service}
}

// Split analyzes the range and produces one aggregate block per regime.
func (a *Analyzer) Split(ctx context.Context, symbol string, start, end domain.Date) (*SplitResult, error) {
	res := &SplitResult{Symbol: symbol, Start: start, End: end}

	var above, below []domain.OutcomeRecord
	err := a.eachRegimeDay(ctx, symbol, start, end, func(day *analysis.Day, regime domain.Regime) {
		if regime == domain.RegimeAbove {
			above = append(above, day.Outcome)
		} else {
			below = append(below, day.Outcome)
		}
	}, &res.NoReleaseDays)
	if err != nil {
		return nil, err
	}

	res.Above = outcome.Aggregate(above)
	res.Below = outcome.Aggregate(below)
	res.AboveDays = len(above)
	res.BelowDays = len(below)
	return res, nil
}

// Filtered analyzes the range keeping only days in the given regime.
func (a *Analyzer) Filtered(ctx context.Context, symbol string, start, end domain.Date, regime domain.Regime) (*RegimeResult, error) {
	if regime != domain.RegimeAbove && regime != domain.RegimeBelow {
		return nil, fmt.Errorf("unknown nfp regime %q", regime)
	}

	res := &RegimeResult{
		Symbol:          symbol,
		Regime:          regime,
		Start:           start,
		End:             end,
		DatesByScenario: make(map[int][]domain.Date),
	}

	var records []domain.OutcomeRecord
	err := a.eachRegimeDay(ctx, symbol, start, end, func(day *analysis.Day, r domain.Regime) {
		if r != regime {
			return
		}
		c := day.Classification
		records = append(records, day.Outcome)
		res.DatesByScenario[c.Scenario] = append(res.DatesByScenario[c.Scenario], c.SessionDate)
	}, &res.NoReleaseDays)
	if err != nil {
		return nil, err
	}

	res.Aggregates = outcome.Aggregate(records)
	res.Days = len(records)
	return res, nil
}

// eachRegimeDay runs the pipeline and invokes fn for every classified day
// that resolves to a regime, incrementing noRelease for the rest.
func (a *Analyzer) eachRegimeDay(ctx context.Context, symbol string, start, end domain.Date, fn func(*analysis.Day, domain.Regime), noRelease *int) error {
	result, err := a.runner.Run(ctx, symbol, start, end)
	if err != nil {
		return err
	}

	for _, day := range result.Days {
		c := day.Classification
		release, err := a.service.ReleaseForMonth(ctx, symbol, c.SessionDate.Year, c.SessionDate.Month)
		if errors.Is(err, ErrNoRelease) {
			*noRelease++
			continue
		}
		if err != nil {
			return err
		}

		regime, ok := ClassifyRegime(c.Window.Close, release.Price)
		if !ok {
			*noRelease++
			continue
		}
		fn(day, regime)
	}
	return nil
}
