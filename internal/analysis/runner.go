// Package analysis drives the day-by-day pipeline: overnight range, morning
// classification, outcome measurement, and per-scenario aggregation over a
// date range.
package analysis

import (
	"context"
	"errors"
	"fmt"

	"overnight-range-lab/internal/classify"
	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/outcome"
	"overnight-range-lab/internal/overnight"
	"overnight-range-lab/internal/session"
	"overnight-range-lab/internal/storage"
)

// Day is the full result for one classified session date.
type Day struct {
	Classification *domain.DayClassification
	Outcome        domain.OutcomeRecord
}

// Result is the analysis of one symbol over an inclusive date range.
// Aggregates always holds all 17 scenarios. Days excluded for missing
// overnight or classification data are counted in NoDataDays, not listed.
type Result struct {
	Symbol string
	Start  domain.Date
	End    domain.Date

	Days            []*Day
	DatesByScenario map[int][]domain.Date
	Aggregates      map[int]*domain.ScenarioAggregate

	TotalDays  int
	NoDataDays int
}

// ClassifiedDays is the number of days that produced a scenario.
func (r *Result) ClassifiedDays() int {
	return len(r.Days)
}

// Runner executes the analysis pipeline against a bar store. The
// classification and aggregate stores are optional; when set, results are
// persisted as a side effect of Run.
type Runner struct {
	extractor       *overnight.Extractor
	classifications storage.ClassificationStore
	aggregates      storage.ScenarioAggregateStore
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Bars            storage.BarStore
	Classifications storage.ClassificationStore
	Aggregates      storage.ScenarioAggregateStore
}

// NewRunner creates an analysis runner.
func NewRunner(opts RunnerOptions) *Runner {
	return &Runner{
		extractor:       overnight.NewExtractor(opts.Bars),
		classifications: opts.Classifications,
		aggregates:      opts.Aggregates,
	}
}

// Run analyzes every session date from start through end inclusive.
// Steps per date:
//  1. Extract the 18:00–06:00 window and reduce it to the overnight range
//  2. Extract the 06:00–09:00 window and classify against the range
//  3. Extract the 09:00–16:00 and 09:00–11:30 windows and measure outcomes
//  4. Fold all day records into per-scenario aggregates
//
// A date with no overnight bars or no classification bars is a no-data day;
// it is counted but produces no scenario. Every calendar date in the range
// is visited, so weekend dates land in the no-data tally.
func (r *Runner) Run(ctx context.Context, symbol string, start, end domain.Date) (*Result, error) {
	res := &Result{
		Symbol:          symbol,
		Start:           start,
		End:             end,
		DatesByScenario: make(map[int][]domain.Date),
	}

	var records []domain.OutcomeRecord
	for _, date := range session.Dates(start, end) {
		res.TotalDays++

		day, err := r.runDay(ctx, symbol, date)
		if err != nil {
			return nil, fmt.Errorf("analyze %s %s: %w", symbol, date, err)
		}
		if day == nil {
			res.NoDataDays++
			continue
		}

		res.Days = append(res.Days, day)
		sc := day.Classification.Scenario
		res.DatesByScenario[sc] = append(res.DatesByScenario[sc], date)
		records = append(records, day.Outcome)

		if r.classifications != nil {
			err := r.classifications.Insert(ctx, day.Classification)
			if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
				return nil, fmt.Errorf("persist classification %s %s: %w", symbol, date, err)
			}
		}
	}

	res.Aggregates = outcome.Aggregate(records)

	if r.aggregates != nil {
		if err := r.persistAggregates(ctx, res); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func (r *Runner) runDay(ctx context.Context, symbol string, date domain.Date) (*Day, error) {
	// 1. Overnight range
	rr, err := r.extractor.Range(ctx, symbol, date)
	if err != nil {
		return nil, err
	}
	if rr.Range == nil {
		return nil, nil
	}

	// 2. Classification window
	classBars, err := r.extractor.Window(ctx, symbol, date, session.WindowClassification)
	if err != nil {
		return nil, err
	}
	scenario, ws, err := classify.Classify(rr.Range, classBars)
	if errors.Is(err, classify.ErrInsufficientData) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c := &domain.DayClassification{
		Symbol:      symbol,
		SessionDate: date,
		Scenario:    scenario,
		Range:       *rr.Range,
		Window:      ws,
	}

	// 3. Outcome and extension windows
	outcomeBars, err := r.extractor.Window(ctx, symbol, date, session.WindowOutcome)
	if err != nil {
		return nil, err
	}
	extensionBars, err := r.extractor.Window(ctx, symbol, date, session.WindowExtension)
	if err != nil {
		return nil, err
	}

	return &Day{
		Classification: c,
		Outcome:        outcome.ComputeRecord(c, outcomeBars, extensionBars),
	}, nil
}

func (r *Runner) persistAggregates(ctx context.Context, res *Result) error {
	records := make([]*domain.AggregateRecord, 0, len(res.Aggregates))
	for s := 1; s <= domain.ScenarioCount; s++ {
		records = append(records, &domain.AggregateRecord{
			Symbol:            res.Symbol,
			RangeStart:        res.Start,
			RangeEnd:          res.End,
			ScenarioAggregate: *res.Aggregates[s],
		})
	}
	err := r.aggregates.InsertBulk(ctx, records)
	if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return fmt.Errorf("persist aggregates %s %s..%s: %w", res.Symbol, res.Start, res.End, err)
	}
	return nil
}
