package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tableside/restaurant-orders/internal/domain/product"
)

const (
	createProductSQL = `INSERT INTO products (id, name, price, category) VALUES ($1, $2, $3, $4)`

	updateProductSQL = `UPDATE products SET name = $2, price = $3, category = $4 WHERE id = $1`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`

	getProductByIDSQL = `SELECT id, name, price, category FROM products WHERE id = $1`

	listProductsSQL = `SELECT id, name, price, category FROM products ORDER BY id`
)

// uniqueViolation is the PostgreSQL error code for duplicate primary keys.
const uniqueViolation = "23505"

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product. Returns product.ErrDuplicateID when the
// identifier is already taken.
func (r *ProductRepository) Create(ctx context.Context, p product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	_, err := r.pool.Exec(ctx, createProductSQL, p.ID, p.Name, p.Price, p.Category)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return product.ErrDuplicateID
		}
		return fmt.Errorf("creating product %q: %w", p.ID, err)
	}
	return nil
}

// Update replaces the stored product. Returns product.ErrNotFound when the
// identifier is unknown.
func (r *ProductRepository) Update(ctx context.Context, p product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, updateProductSQL, p.ID, p.Name, p.Price, p.Category)
	if err != nil {
		return fmt.Errorf("updating product %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Delete removes the product with the given identifier.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// List returns all products from the catalog ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Category)
	return p, err
}
