// Package memory provides in-memory repository implementations. They back
// single-node deployments without a database and the handler tests.
//
// Each repository guards its map with a mutex so a load-mutate-save sequence
// from one request cannot observe a torn write from another. Orders are
// copied on the way in and out, so callers never share mutable state with
// the store.
package memory

import (
	"context"
	"sync"

	"github.com/tableside/restaurant-orders/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository stores orders in memory, preserving insertion order.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*order.Order
	ids    []string
}

// NewOrderRepository returns an empty in-memory order store.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]*order.Order)}
}

// Save stores a copy of o, overwriting any previous state for the same ID.
func (r *OrderRepository) Save(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[o.ID]; !ok {
		r.ids = append(r.ids, o.ID)
	}
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

// FindByID returns a copy of the stored order, or order.ErrNotFound.
func (r *OrderRepository) FindByID(_ context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return cloneOrder(o), nil
}

// FindAll returns copies of all stored orders in insertion order.
func (r *OrderRepository) FindAll(_ context.Context) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]order.Order, 0, len(r.ids))
	for _, id := range r.ids {
		all = append(all, *cloneOrder(r.orders[id]))
	}
	return all, nil
}

func cloneOrder(o *order.Order) *order.Order {
	c := *o
	c.Items = make([]order.Item, len(o.Items))
	copy(c.Items, o.Items)
	if o.Discount != nil {
		d := *o.Discount
		c.Discount = &d
	}
	return &c
}
