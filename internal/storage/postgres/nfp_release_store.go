package postgres

import (
	"context"
	"fmt"
	"time"

	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/storage"
)

// NFPReleaseStore implements storage.NFPReleaseStore using PostgreSQL.
type NFPReleaseStore struct {
	pool *Pool
}

// NewNFPReleaseStore creates a new NFPReleaseStore.
func NewNFPReleaseStore(pool *Pool) *NFPReleaseStore {
	return &NFPReleaseStore{pool: pool}
}

// Compile-time interface check.
var _ storage.NFPReleaseStore = (*NFPReleaseStore)(nil)

// Insert adds a release. Returns ErrDuplicateKey if (symbol, year, month)
// exists.
func (s *NFPReleaseStore) Insert(ctx context.Context, r *domain.NFPRelease) error {
	query := `
		INSERT INTO nfp_releases (symbol, year, month, release_date, price)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		r.Symbol,
		r.Year,
		int(r.Month),
		dateToTime(r.ReleaseDate),
		r.Price,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert nfp release: %w", err)
	}
	return nil
}

// GetByMonth retrieves the release for a month. Returns ErrNotFound if not
// cached.
func (s *NFPReleaseStore) GetByMonth(ctx context.Context, symbol string, year int, month time.Month) (*domain.NFPRelease, error) {
	query := `
		SELECT symbol, year, month, release_date, price
		FROM nfp_releases
		WHERE symbol = $1 AND year = $2 AND month = $3
	`

	var r domain.NFPRelease
	var monthNum int
	var releaseDate time.Time

	err := s.pool.QueryRow(ctx, query, symbol, year, int(month)).Scan(
		&r.Symbol,
		&r.Year,
		&monthNum,
		&releaseDate,
		&r.Price,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get nfp release: %w", err)
	}

	r.Month = time.Month(monthNum)
	r.ReleaseDate = domain.DateOf(releaseDate)
	return &r, nil
}
