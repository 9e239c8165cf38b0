package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/storage"
)

// ClassificationStore implements storage.ClassificationStore using
// PostgreSQL.
type ClassificationStore struct {
	pool *Pool
}

// NewClassificationStore creates a new ClassificationStore.
func NewClassificationStore(pool *Pool) *ClassificationStore {
	return &ClassificationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ClassificationStore = (*ClassificationStore)(nil)

// Insert adds a classification. Returns ErrDuplicateKey if
// (symbol, session_date) exists.
func (s *ClassificationStore) Insert(ctx context.Context, c *domain.DayClassification) error {
	if c.Scenario < 1 || c.Scenario > domain.ScenarioCount {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO day_classifications (
			symbol, session_date, scenario,
			overnight_high, overnight_low, overnight_mid,
			window_min_low, window_max_high, window_close
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		c.Symbol,
		dateToTime(c.SessionDate),
		c.Scenario,
		c.Range.High,
		c.Range.Low,
		c.Range.Mid,
		c.Window.MinLow,
		c.Window.MaxHigh,
		c.Window.Close,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert classification: %w", err)
	}
	return nil
}

// GetBySymbolDate retrieves one classification. Returns ErrNotFound if not
// exists.
func (s *ClassificationStore) GetBySymbolDate(ctx context.Context, symbol string, date domain.Date) (*domain.DayClassification, error) {
	query := `
		SELECT symbol, session_date, scenario,
		       overnight_high, overnight_low, overnight_mid,
		       window_min_low, window_max_high, window_close
		FROM day_classifications
		WHERE symbol = $1 AND session_date = $2
	`

	row := s.pool.QueryRow(ctx, query, symbol, dateToTime(date))
	c, err := scanClassification(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get classification: %w", err)
	}
	return c, nil
}

// GetByDateRange retrieves classifications for a symbol within [start, end]
// inclusive, ordered by session_date ASC.
func (s *ClassificationStore) GetByDateRange(ctx context.Context, symbol string, start, end domain.Date) ([]*domain.DayClassification, error) {
	query := `
		SELECT symbol, session_date, scenario,
		       overnight_high, overnight_low, overnight_mid,
		       window_min_low, window_max_high, window_close
		FROM day_classifications
		WHERE symbol = $1 AND session_date >= $2 AND session_date <= $3
		ORDER BY session_date ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol, dateToTime(start), dateToTime(end))
	if err != nil {
		return nil, fmt.Errorf("get classifications by date range: %w", err)
	}
	defer rows.Close()

	var out []*domain.DayClassification
	for rows.Next() {
		c, err := scanClassification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan classification row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classification rows: %w", err)
	}
	return out, nil
}

func scanClassification(row pgx.Row) (*domain.DayClassification, error) {
	var c domain.DayClassification
	var sessionDate time.Time

	err := row.Scan(
		&c.Symbol,
		&sessionDate,
		&c.Scenario,
		&c.Range.High,
		&c.Range.Low,
		&c.Range.Mid,
		&c.Window.MinLow,
		&c.Window.MaxHigh,
		&c.Window.Close,
	)
	if err != nil {
		return nil, err
	}

	c.SessionDate = domain.DateOf(sessionDate)
	return &c, nil
}
