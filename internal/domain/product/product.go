package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for catalog operations.
var (
	// ErrNotFound is returned when a requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrDuplicateID is returned when creating a product whose ID is already taken.
	ErrDuplicateID = errors.New("product id already exists")
	// ErrInvalidProduct is returned when a product fails basic validation.
	ErrInvalidProduct = errors.New("product name required and price must not be negative")
)

// Product represents a menu item available for ordering.
type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Category string
}

// Validate checks the catalog invariants: a non-empty name and a
// non-negative price.
func (p Product) Validate() error {
	if p.Name == "" || p.Price.IsNegative() {
		return ErrInvalidProduct
	}
	return nil
}

// Repository defines catalog persistence operations.
type Repository interface {
	Create(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
}
