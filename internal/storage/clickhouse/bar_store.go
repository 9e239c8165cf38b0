package clickhouse

import (
	"context"
	"fmt"
	"time"

	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/storage"
)

// BarStore implements storage.BarStore using ClickHouse. The bars_1min
// table is a ReplacingMergeTree ordered by (symbol, ts), so re-inserting a
// (symbol, timestamp) pair replaces the earlier row and backfills stay
// idempotent. Reads use FINAL to collapse not-yet-merged duplicates.
type BarStore struct {
	conn *Conn
}

// NewBarStore creates a new BarStore.
func NewBarStore(conn *Conn) *BarStore {
	return &BarStore{conn: conn}
}

// Compile-time interface check.
var _ storage.BarStore = (*BarStore)(nil)

// InsertBulk adds bars in a single batch.
func (s *BarStore) InsertBulk(ctx context.Context, bars []*domain.MinuteBar) error {
	if len(bars) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO bars_1min (symbol, ts, open, high, low, close, volume)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range bars {
		err = batch.Append(
			b.Symbol,
			b.Timestamp.UTC(),
			b.Open,
			b.High,
			b.Low,
			b.Close,
			uint64(b.Volume),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByTimeRange retrieves bars with start <= ts < end, ordered by ts ASC.
func (s *BarStore) GetByTimeRange(ctx context.Context, symbol string, start, end time.Time) ([]*domain.MinuteBar, error) {
	query := `
		SELECT symbol, ts, open, high, low, close, volume
		FROM bars_1min FINAL
		WHERE symbol = ? AND ts >= ? AND ts < ?
		ORDER BY ts ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("get bars by time range: %w", err)
	}
	defer rows.Close()

	var bars []*domain.MinuteBar
	for rows.Next() {
		var b domain.MinuteBar
		var ts time.Time
		var volume uint64

		err := rows.Scan(&b.Symbol, &ts, &b.Open, &b.High, &b.Low, &b.Close, &volume)
		if err != nil {
			return nil, fmt.Errorf("scan bar row: %w", err)
		}

		b.Timestamp = ts.UTC()
		b.Volume = int64(volume)
		bars = append(bars, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bar rows: %w", err)
	}
	return bars, nil
}

// LatestBar retrieves the bar with the greatest timestamp for the symbol.
func (s *BarStore) LatestBar(ctx context.Context, symbol string) (*domain.MinuteBar, error) {
	query := `
		SELECT symbol, ts, open, high, low, close, volume
		FROM bars_1min FINAL
		WHERE symbol = ?
		ORDER BY ts DESC
		LIMIT 1
	`

	rows, err := s.conn.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("get latest bar: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate latest bar rows: %w", err)
		}
		return nil, storage.ErrNotFound
	}

	var b domain.MinuteBar
	var ts time.Time
	var volume uint64

	err = rows.Scan(&b.Symbol, &ts, &b.Open, &b.High, &b.Low, &b.Close, &volume)
	if err != nil {
		return nil, fmt.Errorf("scan latest bar row: %w", err)
	}

	b.Timestamp = ts.UTC()
	b.Volume = int64(volume)
	return &b, nil
}

// Symbols returns the distinct symbols present, sorted ASC.
func (s *BarStore) Symbols(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT symbol
		FROM bars_1min
		ORDER BY symbol ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("scan symbol row: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate symbol rows: %w", err)
	}
	return symbols, nil
}
