package nfp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/session"
)

// Today describes where the most recent session sits relative to its
// governing NFP release. The reference date is the ET date of the latest
// stored bar, not the wall clock, so stale data resolves against the
// release that governed it.
type Today struct {
	Symbol        string
	ReferenceDate domain.Date

	// Close09 is the close of the last bar in 06:00-09:00 ET on the
	// reference date. HasClose09 is false when that window has no bars,
	// in which case no regime can be resolved.
	Close09    float64
	HasClose09 bool

	// ReleasePrice is the governing release: this month's when the
	// reference date is on or past the scheduled first Friday, the
	// previous month's otherwise.
	ReleasePrice float64
	HasRelease   bool

	Regime    domain.Regime
	HasRegime bool
}

// Today resolves the current regime for a symbol from its latest stored
// bar. A result without HasRegime is not an error; it means the morning
// window was empty, no governing release could be resolved, or the close
// tied the release price exactly.
func (s *Service) Today(ctx context.Context, symbol string) (*Today, error) {
	last, err := s.bars.LatestBar(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("latest bar %s: %w", symbol, err)
	}
	ref := domain.DateOf(last.Timestamp.In(session.ET))
	res := &Today{Symbol: symbol, ReferenceDate: ref}

	start, end, err := session.Bounds(session.WindowClassification, ref)
	if err != nil {
		return nil, err
	}
	morning, err := s.bars.GetByTimeRange(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("morning bars %s %s: %w", symbol, ref, err)
	}
	if len(morning) == 0 {
		return res, nil
	}
	res.Close09 = morning[len(morning)-1].Close
	res.HasClose09 = true

	release, err := s.governingRelease(ctx, symbol, ref)
	if errors.Is(err, ErrNoRelease) {
		return res, nil
	}
	if err != nil {
		return nil, err
	}
	res.ReleasePrice = release.Price
	res.HasRelease = true
	res.Regime, res.HasRegime = ClassifyRegime(res.Close09, release.Price)
	return res, nil
}

// governingRelease picks the release in effect on ref: this month's once
// its scheduled first Friday has passed, the previous month's before
// that. The schedule gate stays on the first Friday even when the price
// resolved from the second-Friday fallback.
func (s *Service) governingRelease(ctx context.Context, symbol string, ref domain.Date) (*domain.NFPRelease, error) {
	if !ref.Before(FirstFriday(ref.Year, ref.Month)) {
		release, err := s.ReleaseForMonth(ctx, symbol, ref.Year, ref.Month)
		if err == nil {
			return release, nil
		}
		if !errors.Is(err, ErrNoRelease) {
			return nil, err
		}
	}

	prevYear, prevMonth := ref.Year, ref.Month-1
	if ref.Month == time.January {
		prevYear, prevMonth = ref.Year-1, time.December
	}
	return s.ReleaseForMonth(ctx, symbol, prevYear, prevMonth)
}
