package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/storage"
)

// BarStore is an in-memory implementation of storage.BarStore.
type BarStore struct {
	mu   sync.RWMutex
	data map[string]*domain.MinuteBar // keyed by (symbol, timestamp)
}

// NewBarStore creates a new in-memory bar store.
func NewBarStore() *BarStore {
	return &BarStore{
		data: make(map[string]*domain.MinuteBar),
	}
}

// Compile-time interface check.
var _ storage.BarStore = (*BarStore)(nil)

// barKey generates a unique key for a bar.
func barKey(symbol string, ts time.Time) string {
	return fmt.Sprintf("%s|%d", symbol, ts.UTC().Unix())
}

// InsertBulk adds bars in a batch, overwriting existing (symbol, timestamp)
// pairs so backfills are idempotent.
func (s *BarStore) InsertBulk(_ context.Context, bars []*domain.MinuteBar) error {
	if len(bars) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range bars {
		if b == nil || b.Symbol == "" || b.Timestamp.IsZero() {
			return storage.ErrInvalidInput
		}
		barCopy := *b
		barCopy.Timestamp = b.Timestamp.UTC()
		s.data[barKey(b.Symbol, b.Timestamp)] = &barCopy
	}

	return nil
}

// GetByTimeRange retrieves bars with start <= timestamp < end, ordered
// by timestamp ASC.
func (s *BarStore) GetByTimeRange(_ context.Context, symbol string, start, end time.Time) ([]*domain.MinuteBar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.MinuteBar
	for _, b := range s.data {
		if b.Symbol != symbol {
			continue
		}
		if b.Timestamp.Before(start) || !b.Timestamp.Before(end) {
			continue
		}
		barCopy := *b
		result = append(result, &barCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})

	return result, nil
}

// LatestBar retrieves the bar with the greatest timestamp for the symbol.
func (s *BarStore) LatestBar(_ context.Context, symbol string) (*domain.MinuteBar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.MinuteBar
	for _, b := range s.data {
		if b.Symbol != symbol {
			continue
		}
		if latest == nil || b.Timestamp.After(latest.Timestamp) {
			latest = b
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}

	barCopy := *latest
	return &barCopy, nil
}

// Symbols returns the distinct symbols present, sorted ASC.
func (s *BarStore) Symbols(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, b := range s.data {
		seen[b.Symbol] = struct{}{}
	}

	symbols := make([]string, 0, len(seen))
	for sym := range seen {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	return symbols, nil
}
