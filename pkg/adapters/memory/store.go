package memory

import (
	"context"
	"sync"

	"github.com/aretw0/blend/pkg/domain"
)

// Store implements ports.CombinationStore in memory.
// Safe for concurrent use.
type Store struct {
	data  map[string]*domain.Combination
	order []string
	mu    sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Combination),
	}
}

// Save persists a copy of the combination.
func (s *Store) Save(ctx context.Context, c *domain.Combination) error {
	copied := c.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[c.ID]; !exists {
		s.order = append(s.order, c.ID)
	}
	s.data[c.ID] = copied
	return nil
}

// Load retrieves a copy so callers can't mutate store state through the pointer.
func (s *Store) Load(ctx context.Context, id string) (*domain.Combination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.data[id]
	if !ok {
		return nil, domain.ErrCombinationNotFound
	}
	return c.Clone(), nil
}

// Delete removes the combination.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return nil
	}
	delete(s.data, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns stored IDs in insertion order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids, nil
}
