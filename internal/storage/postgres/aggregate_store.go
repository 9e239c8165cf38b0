package postgres

import (
	"context"
	"fmt"
	"time"

	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/storage"
)

// ScenarioAggregateStore implements storage.ScenarioAggregateStore using
// PostgreSQL.
type ScenarioAggregateStore struct {
	pool *Pool
}

// NewScenarioAggregateStore creates a new ScenarioAggregateStore.
func NewScenarioAggregateStore(pool *Pool) *ScenarioAggregateStore {
	return &ScenarioAggregateStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScenarioAggregateStore = (*ScenarioAggregateStore)(nil)

// InsertBulk adds the aggregates of one analysis run atomically. Fails the
// entire batch on any duplicate.
func (s *ScenarioAggregateStore) InsertBulk(ctx context.Context, records []*domain.AggregateRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO scenario_aggregates (
			symbol, range_start, range_end, scenario,
			total_days, pct_of_total,
			days_above_mid, pct_above_mid,
			days_above_morning_low, pct_above_morning_low,
			days_above_session_low, pct_above_session_low,
			days_new_high, pct_new_high,
			days_below_mid, pct_below_mid,
			days_below_morning_high, pct_below_morning_high,
			days_below_session_high, pct_below_session_high,
			days_new_low, pct_new_low
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)
	`

	for _, r := range records {
		_, err := tx.Exec(ctx, query,
			r.Symbol,
			dateToTime(r.RangeStart),
			dateToTime(r.RangeEnd),
			r.Scenario,
			r.Days,
			r.PctOfTotal,
			r.DaysAboveMid,
			r.PctAboveMid,
			r.DaysAboveMorningLow,
			r.PctAboveMorningLow,
			r.DaysAboveSessionLow,
			r.PctAboveSessionLow,
			r.DaysNewHigh,
			r.PctNewHigh,
			r.DaysBelowMid,
			r.PctBelowMid,
			r.DaysBelowMorningHigh,
			r.PctBelowMorningHigh,
			r.DaysBelowSessionHigh,
			r.PctBelowSessionHigh,
			r.DaysNewLow,
			r.PctNewLow,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert aggregate in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByRange retrieves the aggregates computed for an exact range, ordered
// by scenario ASC.
func (s *ScenarioAggregateStore) GetByRange(ctx context.Context, symbol string, start, end domain.Date) ([]*domain.AggregateRecord, error) {
	query := `
		SELECT symbol, range_start, range_end, scenario,
		       total_days, pct_of_total,
		       days_above_mid, pct_above_mid,
		       days_above_morning_low, pct_above_morning_low,
		       days_above_session_low, pct_above_session_low,
		       days_new_high, pct_new_high,
		       days_below_mid, pct_below_mid,
		       days_below_morning_high, pct_below_morning_high,
		       days_below_session_high, pct_below_session_high,
		       days_new_low, pct_new_low
		FROM scenario_aggregates
		WHERE symbol = $1 AND range_start = $2 AND range_end = $3
		ORDER BY scenario ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol, dateToTime(start), dateToTime(end))
	if err != nil {
		return nil, fmt.Errorf("get aggregates by range: %w", err)
	}
	defer rows.Close()

	var out []*domain.AggregateRecord
	for rows.Next() {
		var r domain.AggregateRecord
		var rangeStart, rangeEnd time.Time

		err := rows.Scan(
			&r.Symbol,
			&rangeStart,
			&rangeEnd,
			&r.Scenario,
			&r.Days,
			&r.PctOfTotal,
			&r.DaysAboveMid,
			&r.PctAboveMid,
			&r.DaysAboveMorningLow,
			&r.PctAboveMorningLow,
			&r.DaysAboveSessionLow,
			&r.PctAboveSessionLow,
			&r.DaysNewHigh,
			&r.PctNewHigh,
			&r.DaysBelowMid,
			&r.PctBelowMid,
			&r.DaysBelowMorningHigh,
			&r.PctBelowMorningHigh,
			&r.DaysBelowSessionHigh,
			&r.PctBelowSessionHigh,
			&r.DaysNewLow,
			&r.PctNewLow,
		)
		if err != nil {
			return nil, fmt.Errorf("scan aggregate row: %w", err)
		}

		r.RangeStart = domain.DateOf(rangeStart)
		r.RangeEnd = domain.DateOf(rangeEnd)
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aggregate rows: %w", err)
	}
	return out, nil
}
