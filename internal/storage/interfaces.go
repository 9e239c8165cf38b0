package storage

import (
	"context"
	"time"

	"overnight-range-lab/internal/domain"
)

// BarStore provides access to 1-minute bar storage.
type BarStore interface {
	// InsertBulk adds bars in a batch. Re-inserting an existing
	// (symbol, timestamp) pair overwrites it: backfills are idempotent.
	InsertBulk(ctx context.Context, bars []*domain.MinuteBar) error

	// GetByTimeRange retrieves bars for a symbol with
	// start <= timestamp < end, ordered by timestamp ASC. An empty result
	// is not an error; it signals "no data" to callers.
	GetByTimeRange(ctx context.Context, symbol string, start, end time.Time) ([]*domain.MinuteBar, error)

	// LatestBar retrieves the bar with the greatest timestamp for a
	// symbol. Returns ErrNotFound when the symbol has no bars.
	LatestBar(ctx context.Context, symbol string) (*domain.MinuteBar, error)

	// Symbols returns the distinct symbols present, sorted ASC.
	Symbols(ctx context.Context) ([]string, error)
}

// ClassificationStore provides access to per-day scenario classifications.
type ClassificationStore interface {
	// Insert adds a classification. Returns ErrDuplicateKey if
	// (symbol, session_date) exists.
	Insert(ctx context.Context, c *domain.DayClassification) error

	// GetBySymbolDate retrieves one classification. Returns ErrNotFound
	// if not exists.
	GetBySymbolDate(ctx context.Context, symbol string, date domain.Date) (*domain.DayClassification, error)

	// GetByDateRange retrieves classifications for a symbol within
	// [start, end] (inclusive), ordered by session_date ASC.
	GetByDateRange(ctx context.Context, symbol string, start, end domain.Date) ([]*domain.DayClassification, error)
}

// ScenarioAggregateStore provides access to persisted scenario aggregates.
type ScenarioAggregateStore interface {
	// InsertBulk adds the aggregates of one analysis run. Returns
	// ErrDuplicateKey if any (symbol, range_start, range_end, scenario)
	// exists.
	InsertBulk(ctx context.Context, records []*domain.AggregateRecord) error

	// GetByRange retrieves the aggregates computed for an exact range,
	// ordered by scenario ASC. Empty result if the range was never run.
	GetByRange(ctx context.Context, symbol string, start, end domain.Date) ([]*domain.AggregateRecord, error)
}

// NFPReleaseStore caches resolved NFP release prices per month.
type NFPReleaseStore interface {
	// Insert adds a release. Returns ErrDuplicateKey if
	// (symbol, year, month) exists.
	Insert(ctx context.Context, r *domain.NFPRelease) error

	// GetByMonth retrieves the release for a month. Returns ErrNotFound
	// if not cached.
	GetByMonth(ctx context.Context, symbol string, year int, month time.Month) (*domain.NFPRelease, error)
}
