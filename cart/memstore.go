package cart

import (
	"context"
	"sync"

	"go-storefront/models"
)

// MemStore is an in-memory Store with the same revision semantics as the
// Mongo-backed one. Tests use it in place of a running database.
type MemStore struct {
	mu    sync.Mutex
	carts map[string]models.Cart

	// GetErr, PutErr and DeleteErr, when set, make every matching call
	// fail. Tests use them to simulate storage outages.
	GetErr    error
	PutErr    error
	DeleteErr error
}

// NewMemStore returns an empty in-memory cart store.
func NewMemStore() *MemStore {
	return &MemStore{carts: make(map[string]models.Cart)}
}

func copyCart(c models.Cart) models.Cart {
	out := c
	out.Lines = make([]models.CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}

// Get returns a copy of the stored cart, or (nil, nil) when absent.
func (s *MemStore) Get(ctx context.Context, key string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	stored, ok := s.carts[key]
	if !ok {
		return nil, nil
	}
	out := copyCart(stored)
	return &out, nil
}

// Put stores a copy of the cart if its revision matches the stored one.
func (s *MemStore) Put(ctx context.Context, key string, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil {
		return s.PutErr
	}
	stored, ok := s.carts[key]
	switch {
	case !ok && cart.Revision != 0:
		return ErrConflict
	case ok && stored.Revision != cart.Revision:
		return ErrConflict
	}
	next := copyCart(*cart)
	next.Revision = cart.Revision + 1
	s.carts[key] = next
	cart.Revision = next.Revision
	return nil
}

// Delete removes the cart under key; missing keys are a no-op.
func (s *MemStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.carts, key)
	return nil
}

// Len reports how many carts are stored.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}
