// Package overnight extracts session windows from the bar store and reduces
// the 18:00–06:00 window to its high/low/mid range.
package overnight

import (
	"context"
	"fmt"
	"time"

	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/session"
	"overnight-range-lab/internal/storage"
)

// RangeResult is the overnight computation for one session date. Range is
// nil when the window held no bars; that is a valid "no data" result, not
// an error.
type RangeResult struct {
	Symbol      string
	SessionDate domain.Date
	StartET     time.Time
	EndET       time.Time
	Range       *domain.OvernightRange
	Open        float64
	Close       float64
	BarCount    int
}

// ComputeRange reduces overnight bars to (high, low, mid). Returns nil for
// an empty window. Max and min are order-independent and the midpoint is a
// single division, so the result is reproducible bit-for-bit.
func ComputeRange(bars []*domain.MinuteBar) *domain.OvernightRange {
	if len(bars) == 0 {
		return nil
	}

	high := bars[0].High
	low := bars[0].Low
	for _, b := range bars[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}

	rng := domain.NewOvernightRange(high, low)
	return &rng
}

// Extractor resolves named session windows against the bar store.
type Extractor struct {
	bars storage.BarStore
}

// NewExtractor creates a window extractor over the given bar store.
func NewExtractor(bars storage.BarStore) *Extractor {
	return &Extractor{bars: bars}
}

// Window returns the ordered bars of the named window for a session date.
// An empty slice is a valid result and signals "no data".
func (e *Extractor) Window(ctx context.Context, symbol string, date domain.Date, w session.Window) ([]*domain.MinuteBar, error) {
	start, end, err := session.Bounds(w, date)
	if err != nil {
		return nil, err
	}

	bars, err := e.bars.GetByTimeRange(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch %s window for %s %s: %w", w, symbol, date, err)
	}
	return bars, nil
}

// Range computes the overnight range for one session date.
func (e *Extractor) Range(ctx context.Context, symbol string, date domain.Date) (*RangeResult, error) {
	start, end, err := session.Bounds(session.WindowOvernight, date)
	if err != nil {
		return nil, err
	}

	bars, err := e.bars.GetByTimeRange(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch overnight window for %s %s: %w", symbol, date, err)
	}

	res := &RangeResult{
		Symbol:      symbol,
		SessionDate: date,
		StartET:     start.In(session.ET),
		EndET:       end.In(session.ET),
		Range:       ComputeRange(bars),
		BarCount:    len(bars),
	}
	if len(bars) > 0 {
		res.Open = bars[0].Open
		res.Close = bars[len(bars)-1].Close
	}
	return res, nil
}

// Ranges computes the overnight range for each session date in the
// inclusive range. Dates without data yield a nil Range entry.
func (e *Extractor) Ranges(ctx context.Context, symbol string, start, end domain.Date) ([]*RangeResult, error) {
	var results []*RangeResult
	for _, d := range session.Dates(start, end) {
		res, err := e.Range(ctx, symbol, d)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
