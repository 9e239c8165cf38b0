package nfp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/session"
	"overnight-range-lab/internal/storage"
)

// ErrNoRelease means neither the first nor the second Friday of the month
// had an 08:30 ET bar.
var ErrNoRelease = errors.New("no nfp release bar for month")

// Service resolves the effective NFP release for a month: the close of the
// bar covering 08:30 ET on the first Friday, falling back to the second
// Friday when the first has no data. Resolved releases are cached through
// the optional release store.
type Service struct {
	bars     storage.BarStore
	releases storage.NFPReleaseStore
}

// NewService creates an NFP release service. releases may be nil to skip
// caching.
func NewService(bars storage.BarStore, releases storage.NFPReleaseStore) *Service {
	return &Service{bars: bars, releases: releases}
}

// ReleaseForMonth returns the effective release for (symbol, year, month).
// Returns ErrNoRelease when no candidate Friday has bar data.
func (s *Service) ReleaseForMonth(ctx context.Context, symbol string, year int, month time.Month) (*domain.NFPRelease, error) {
	if s.releases != nil {
		cached, err := s.releases.GetByMonth(ctx, symbol, year, month)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("nfp cache lookup %s %d-%02d: %w", symbol, year, month, err)
		}
	}

	release, err := s.resolve(ctx, symbol, year, month)
	if err != nil {
		return nil, err
	}

	if s.releases != nil {
		err := s.releases.Insert(ctx, release)
		if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			return nil, fmt.Errorf("nfp cache insert %s %d-%02d: %w", symbol, year, month, err)
		}
	}
	return release, nil
}

func (s *Service) resolve(ctx context.Context, symbol string, year int, month time.Month) (*domain.NFPRelease, error) {
	for _, day := range []domain.Date{FirstFriday(year, month), SecondFriday(year, month)} {
		price, ok, err := s.releasePrice(ctx, symbol, day)
		if err != nil {
			return nil, err
		}
		if ok {
			return &domain.NFPRelease{
				Symbol:      symbol,
				Year:        year,
				Month:       month,
				ReleaseDate: day,
				Price:       price,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %d-%02d", ErrNoRelease, symbol, year, month)
}

// releasePrice returns the close of the first bar in [08:30, 08:31) ET.
func (s *Service) releasePrice(ctx context.Context, symbol string, day domain.Date) (float64, bool, error) {
	start := day.At(8, 30, session.ET)
	bars, err := s.bars.GetByTimeRange(ctx, symbol, start, start.Add(time.Minute))
	if err != nil {
		return 0, false, fmt.Errorf("nfp release bar %s %s: %w", symbol, day, err)
	}
	if len(bars) == 0 {
		return 0, false, nil
	}
	return bars[0].Close, true, nil
}
