package memory

import (
	"context"
	"sync"

	"shopchat/internal/domain"
	"shopchat/internal/storage"
)

// Store is an in-memory implementation of OrderStore, scoped to one
// session.
type Store struct {
	mu     sync.RWMutex
	orders []domain.OrderRecord
}

var _ storage.OrderStore = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{}
}

func (s *Store) Append(ctx context.Context, order *domain.OrderRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append(s.orders, *order)
	return nil
}

func (s *Store) List(ctx context.Context) ([]domain.OrderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.OrderRecord, len(s.orders))
	copy(out, s.orders)
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.orders), nil
}
