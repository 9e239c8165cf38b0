// Package reporting renders analysis results as text tables, Markdown, and
// CSV. Counts and full-precision percentages come in from the aggregator;
// all display rounding happens here.
package reporting

import (
	"fmt"
	"sort"
	"time"

	"overnight-range-lab/internal/analysis"
	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/nfp"
)

// Row is one scenario's statistic line plus its display label.
type Row struct {
	Label string
	domain.ScenarioAggregate
}

// ScenarioReport is a renderable snapshot of one analysis run. Rows are in
// scenario order, restricted to the requested scenarios when a filter was
// given; the totals always describe the unfiltered run.
type ScenarioReport struct {
	Symbol      string
	Start       domain.Date
	End         domain.Date
	GeneratedAt time.Time

	TotalDays      int
	ClassifiedDays int
	NoDataDays     int

	Rows            []Row
	DatesByScenario map[int][]domain.Date
}

// RegimeReport pairs the above/below scenario blocks for one range.
type RegimeReport struct {
	Symbol      string
	Start       domain.Date
	End         domain.Date
	GeneratedAt time.Time

	Above []Row
	Below []Row

	AboveDays     int
	BelowDays     int
	NoReleaseDays int
}

// ScenarioLabel is the display label for a scenario: plain number for 1–6,
// number plus letter alias for 7–17.
func ScenarioLabel(s int) string {
	if letter := domain.ScenarioLetter(s); letter != "" {
		return fmt.Sprintf("%d (%s)", s, letter)
	}
	return fmt.Sprintf("%d", s)
}

// Builder assembles reports. The clock is injectable for deterministic
// output.
type Builder struct {
	now func() time.Time
}

// NewBuilder creates a report builder.
func NewBuilder() *Builder {
	return &Builder{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock sets a custom clock function for deterministic output.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// ScenarioReport builds a report from an analysis result. scenarios narrows
// the rows; nil or empty keeps all 17.
func (b *Builder) ScenarioReport(res *analysis.Result, scenarios []int) *ScenarioReport {
	report := &ScenarioReport{
		Symbol:          res.Symbol,
		Start:           res.Start,
		End:             res.End,
		GeneratedAt:     b.now(),
		TotalDays:       res.TotalDays,
		ClassifiedDays:  res.ClassifiedDays(),
		NoDataDays:      res.NoDataDays,
		Rows:            Rows(res.Aggregates, scenarios),
		DatesByScenario: res.DatesByScenario,
	}
	return report
}

// RegimeReport builds a paired report from an NFP regime split.
func (b *Builder) RegimeReport(split *nfp.SplitResult) *RegimeReport {
	return &RegimeReport{
		Symbol:        split.Symbol,
		Start:         split.Start,
		End:           split.End,
		GeneratedAt:   b.now(),
		Above:         Rows(split.Above, nil),
		Below:         Rows(split.Below, nil),
		AboveDays:     split.AboveDays,
		BelowDays:     split.BelowDays,
		NoReleaseDays: split.NoReleaseDays,
	}
}

// Rows converts an aggregate map into display rows in scenario order.
// scenarios narrows the rows; nil or empty keeps all 17.
func Rows(aggs map[int]*domain.ScenarioAggregate, scenarios []int) []Row {
	keep := make(map[int]bool, len(scenarios))
	for _, s := range scenarios {
		keep[s] = true
	}

	var rows []Row
	for s := 1; s <= domain.ScenarioCount; s++ {
		if len(scenarios) > 0 && !keep[s] {
			continue
		}
		agg, ok := aggs[s]
		if !ok {
			agg = &domain.ScenarioAggregate{Scenario: s}
		}
		rows = append(rows, Row{Label: ScenarioLabel(s), ScenarioAggregate: *agg})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Scenario < rows[j].Scenario })
	return rows
}
