package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tableside/restaurant-orders/internal/domain/order"
	"github.com/tableside/restaurant-orders/internal/domain/product"
)

const (
	saveOrderSQL = `INSERT INTO orders (id, table_number, items, status, discount_amount, discount_percent, discount_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			items = EXCLUDED.items,
			status = EXCLUDED.status,
			discount_amount = EXCLUDED.discount_amount,
			discount_percent = EXCLUDED.discount_percent,
			discount_reason = EXCLUDED.discount_reason`

	orderColumns = `id, table_number, items, status, discount_amount, discount_percent, discount_reason, created_at`

	getOrderByIDSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	listOrdersSQL = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// itemRecord is the JSONB representation of an order line.
type itemRecord struct {
	Product  productRecord `json:"product"`
	Quantity int           `json:"quantity"`
}

type productRecord struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

func toItemRecords(items []order.Item) []itemRecord {
	records := make([]itemRecord, len(items))
	for i, item := range items {
		records[i] = itemRecord{
			Product: productRecord{
				ID:       item.Product.ID,
				Name:     item.Product.Name,
				Price:    item.Product.Price,
				Category: item.Product.Category,
			},
			Quantity: item.Quantity,
		}
	}
	return records
}

func fromItemRecords(records []itemRecord) []order.Item {
	items := make([]order.Item, len(records))
	for i, r := range records {
		items[i] = order.Item{
			Product: product.Product{
				ID:       r.Product.ID,
				Name:     r.Product.Name,
				Price:    r.Product.Price,
				Category: r.Product.Category,
			},
			Quantity: r.Quantity,
		}
	}
	return items
}

// Save upserts the full order state. The order items are serialized to JSON
// for storage in the JSONB column.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(toItemRecords(o.Items))
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	var (
		amount  *decimal.Decimal
		percent *decimal.Decimal
		reason  *string
	)
	if o.Discount != nil {
		amount = &o.Discount.Amount
		percent = &o.Discount.Percentage
		reason = &o.Discount.Reason
	}

	_, err = r.pool.Exec(ctx, saveOrderSQL,
		o.ID, o.TableNumber, itemsJSON, string(o.Status), amount, percent, reason, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving order %q: %w", o.ID, err)
	}

	return nil
}

// FindByID returns a single order by its identifier.
// Returns order.ErrNotFound when it does not exist.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

// FindAll returns every stored order, oldest first.
func (r *OrderRepository) FindAll(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		status    string
		itemsJSON []byte
		amount    *decimal.Decimal
		percent   *decimal.Decimal
		reason    *string
		createdAt time.Time
	)
	if err := row.Scan(&o.ID, &o.TableNumber, &itemsJSON, &status, &amount, &percent, &reason, &createdAt); err != nil {
		return order.Order{}, err
	}

	var records []itemRecord
	if err := json.Unmarshal(itemsJSON, &records); err != nil {
		return order.Order{}, fmt.Errorf("unmarshaling order items: %w", err)
	}

	o.Items = fromItemRecords(records)
	o.Status = order.Status(status)
	o.CreatedAt = createdAt
	if amount != nil && percent != nil {
		d := order.Discount{Amount: *amount, Percentage: *percent}
		if reason != nil {
			d.Reason = *reason
		}
		o.Discount = &d
	}
	return o, nil
}
