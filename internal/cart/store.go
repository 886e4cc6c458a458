// Package cart implements the mutable cart store, the derivation of
// its totals, and the controller that serializes all mutations.
package cart

import (
	"fmt"
	"sync"

	"github.com/jscartlabs/cart-service/internal/catalog"
	"github.com/jscartlabs/cart-service/internal/model"
)

// Store maps product IDs to selected quantities, remembering the order
// in which products were first added. At most one line exists per
// product and a zero-quantity line is never stored.
type Store struct {
	mu    sync.RWMutex
	cat   *catalog.Catalog
	qty   map[string]int64
	order []string
}

// NewStore returns an empty store validating against cat.
func NewStore(cat *catalog.Catalog) *Store {
	return &Store{cat: cat, qty: make(map[string]int64)}
}

// Increment adds one unit of the product to the cart, creating the
// line on first use. IDs the catalog does not know fail with
// ErrUnknownProduct and leave the store unchanged.
func (s *Store) Increment(id string) error {
	if _, ok := s.cat.Get(id); !ok {
		return fmt.Errorf("increment %q: %w", id, ErrUnknownProduct)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.qty[id]; !ok {
		s.order = append(s.order, id)
	}
	s.qty[id]++
	return nil
}

// Lines returns a snapshot of cart lines in first-added order.
func (s *Store) Lines() []model.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CartLine, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, model.CartLine{ProductID: id, Quantity: s.qty[id]})
	}
	return out
}

// Quantity returns the selected quantity for one product, zero when
// the line is absent.
func (s *Store) Quantity(id string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.qty[id]
}

// Clear removes every line, returning all products to absent.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qty = make(map[string]int64)
	s.order = nil
}
