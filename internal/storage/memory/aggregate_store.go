package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/storage"
)

// ScenarioAggregateStore is an in-memory implementation of
// storage.ScenarioAggregateStore.
type ScenarioAggregateStore struct {
	mu   sync.RWMutex
	data map[string]*domain.AggregateRecord // keyed by (symbol, range, scenario)
}

// NewScenarioAggregateStore creates a new in-memory aggregate store.
func NewScenarioAggregateStore() *ScenarioAggregateStore {
	return &ScenarioAggregateStore{
		data: make(map[string]*domain.AggregateRecord),
	}
}

// Compile-time interface check.
var _ storage.ScenarioAggregateStore = (*ScenarioAggregateStore)(nil)

func aggregateKey(symbol string, start, end domain.Date, scenario int) string {
	return fmt.Sprintf("%s|%s|%s|%d", symbol, start, end, scenario)
}

// InsertBulk adds the aggregates of one analysis run. Fails the entire
// batch on any duplicate.
func (s *ScenarioAggregateStore) InsertBulk(_ context.Context, records []*domain.AggregateRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates.
	batchKeys := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.Symbol == "" {
			return storage.ErrInvalidInput
		}
		key := aggregateKey(r.Symbol, r.RangeStart, r.RangeEnd, r.Scenario)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, r := range records {
		recCopy := *r
		s.data[aggregateKey(r.Symbol, r.RangeStart, r.RangeEnd, r.Scenario)] = &recCopy
	}

	return nil
}

// GetByRange retrieves the aggregates computed for an exact range,
// ordered by scenario ASC.
func (s *ScenarioAggregateStore) GetByRange(_ context.Context, symbol string, start, end domain.Date) ([]*domain.AggregateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AggregateRecord
	for _, r := range s.data {
		if r.Symbol != symbol || r.RangeStart != start || r.RangeEnd != end {
			continue
		}
		recCopy := *r
		result = append(result, &recCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Scenario < result[j].Scenario
	})

	return result, nil
}
