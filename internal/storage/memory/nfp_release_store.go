package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/storage"
)

// NFPReleaseStore is an in-memory implementation of storage.NFPReleaseStore.
type NFPReleaseStore struct {
	mu   sync.RWMutex
	data map[string]*domain.NFPRelease // keyed by (symbol, year, month)
}

// NewNFPReleaseStore creates a new in-memory NFP release store.
func NewNFPReleaseStore() *NFPReleaseStore {
	return &NFPReleaseStore{
		data: make(map[string]*domain.NFPRelease),
	}
}

// Compile-time interface check.
var _ storage.NFPReleaseStore = (*NFPReleaseStore)(nil)

func releaseKey(symbol string, year int, month time.Month) string {
	return fmt.Sprintf("%s|%04d-%02d", symbol, year, int(month))
}

// Insert adds a release. Returns ErrDuplicateKey if (symbol, year, month)
// exists.
func (s *NFPReleaseStore) Insert(_ context.Context, r *domain.NFPRelease) error {
	if r == nil || r.Symbol == "" || r.Year == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := releaseKey(r.Symbol, r.Year, r.Month)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	relCopy := *r
	s.data[key] = &relCopy

	return nil
}

// GetByMonth retrieves the release for a month. Returns ErrNotFound if
// not cached.
func (s *NFPReleaseStore) GetByMonth(_ context.Context, symbol string, year int, month time.Month) (*domain.NFPRelease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[releaseKey(symbol, year, month)]
	if !exists {
		return nil, storage.ErrNotFound
	}

	relCopy := *r
	return &relCopy, nil
}
