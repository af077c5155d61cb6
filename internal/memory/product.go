package memory

import (
	"context"
	"sync"

	"github.com/tableside/restaurant-orders/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository stores the catalog in memory, preserving insertion order.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]product.Product
	ids      []string
}

// NewProductRepository returns an empty in-memory catalog.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]product.Product)}
}

// Create adds a new product. Returns product.ErrDuplicateID when the
// identifier is already taken.
func (r *ProductRepository) Create(_ context.Context, p product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[p.ID]; ok {
		return product.ErrDuplicateID
	}
	r.products[p.ID] = p
	r.ids = append(r.ids, p.ID)
	return nil
}

// Update replaces a stored product. Returns product.ErrNotFound when the
// identifier is unknown.
func (r *ProductRepository) Update(_ context.Context, p product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[p.ID]; !ok {
		return product.ErrNotFound
	}
	r.products[p.ID] = p
	return nil
}

// Delete removes the product with the given identifier.
func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return product.ErrNotFound
	}
	delete(r.products, id)
	for i, existing := range r.ids {
		if existing == id {
			r.ids = append(r.ids[:i], r.ids[i+1:]...)
			break
		}
	}
	return nil
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

// List returns all products in insertion order.
func (r *ProductRepository) List(_ context.Context) ([]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]product.Product, 0, len(r.ids))
	for _, id := range r.ids {
		all = append(all, r.products[id])
	}
	return all, nil
}
