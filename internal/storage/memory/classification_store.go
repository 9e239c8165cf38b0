package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"overnight-range-lab/internal/domain"
	"overnight-range-lab/internal/storage"
)

// ClassificationStore is an in-memory implementation of
// storage.ClassificationStore.
type ClassificationStore struct {
	mu   sync.RWMutex
	data map[string]*domain.DayClassification // keyed by (symbol, session_date)
}

// NewClassificationStore creates a new in-memory classification store.
func NewClassificationStore() *ClassificationStore {
	return &ClassificationStore{
		data: make(map[string]*domain.DayClassification),
	}
}

// Compile-time interface check.
var _ storage.ClassificationStore = (*ClassificationStore)(nil)

func classificationKey(symbol string, date domain.Date) string {
	return fmt.Sprintf("%s|%s", symbol, date)
}

// Insert adds a classification. Returns ErrDuplicateKey if
// (symbol, session_date) exists.
func (s *ClassificationStore) Insert(_ context.Context, c *domain.DayClassification) error {
	if c == nil || c.Symbol == "" || c.SessionDate.IsZero() {
		return storage.ErrInvalidInput
	}
	if c.Scenario < 1 || c.Scenario > domain.ScenarioCount {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := classificationKey(c.Symbol, c.SessionDate)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	classCopy := *c
	s.data[key] = &classCopy

	return nil
}

// GetBySymbolDate retrieves one classification. Returns ErrNotFound if
// not exists.
func (s *ClassificationStore) GetBySymbolDate(_ context.Context, symbol string, date domain.Date) (*domain.DayClassification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.data[classificationKey(symbol, date)]
	if !exists {
		return nil, storage.ErrNotFound
	}

	classCopy := *c
	return &classCopy, nil
}

// GetByDateRange retrieves classifications for a symbol within
// [start, end] (inclusive), ordered by session_date ASC.
func (s *ClassificationStore) GetByDateRange(_ context.Context, symbol string, start, end domain.Date) ([]*domain.DayClassification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DayClassification
	for _, c := range s.data {
		if c.Symbol != symbol {
			continue
		}
		if c.SessionDate.Before(start) || c.SessionDate.After(end) {
			continue
		}
		classCopy := *c
		result = append(result, &classCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SessionDate.Before(result[j].SessionDate)
	})

	return result, nil
}
