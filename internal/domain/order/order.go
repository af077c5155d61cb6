package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tableside/restaurant-orders/internal/domain/product"
)

var hundred = decimal.NewFromInt(100)

// Sentinel errors for order validation.
var (
	ErrInvalidTableNumber     = errors.New("table number must be greater than 0")
	ErrProductRequired        = errors.New("product required")
	ErrInvalidQuantity        = errors.New("quantity must be greater than 0")
	ErrDiscountNotPositive    = errors.New("discount amount and percentage must be positive")
	ErrDiscountMismatch       = errors.New("discount amount does not match percentage")
	ErrDiscountAlreadyApplied = errors.New("a discount was already applied to this order")
	ErrUnknownStatus          = errors.New("unknown order status")
	ErrNotFound               = errors.New("order not found")
)

// TerminalStateError indicates an attempted transition out of a terminal status.
type TerminalStateError struct {
	Current   Status
	Requested Status
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("order in terminal status %s cannot change to %s", e.Current, e.Requested)
}

// NotModifiableError indicates items cannot be added in the order's current status.
type NotModifiableError struct {
	Status Status
}

func (e *NotModifiableError) Error() string {
	return fmt.Sprintf("cannot add items to an order in status %s", e.Status)
}

// Item pairs a product with a positive quantity. Items are value types:
// merging quantities replaces the entry rather than mutating it.
type Item struct {
	Product  product.Product
	Quantity int
}

// Subtotal returns price * quantity for this line.
func (i Item) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Discount records the single discount applied to an order. Amount and
// Percentage are mutually consistent against the subtotal at application
// time; Reason holds the redeemed coupon code.
type Discount struct {
	Amount     decimal.Decimal
	Percentage decimal.Decimal
	Reason     string
}

// Order aggregates items for one table and owns the status machine and
// discount latch. All mutation goes through Service.
type Order struct {
	ID          string
	TableNumber int
	Items       []Item
	Status      Status
	Discount    *Discount
	CreatedAt   time.Time
}

// New creates an order for the given table in status CREATED.
func New(tableNumber int) (*Order, error) {
	if tableNumber <= 0 {
		return nil, ErrInvalidTableNumber
	}
	return &Order{
		ID:          uuid.New().String(),
		TableNumber: tableNumber,
		Status:      StatusCreated,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// AddItem adds quantity units of p to the order. If the product is already
// present its entry is replaced with the merged quantity, so the order never
// holds two lines for the same product.
func (o *Order) AddItem(p product.Product, quantity int) error {
	if p.ID == "" {
		return ErrProductRequired
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	for i, item := range o.Items {
		if item.Product.ID == p.ID {
			o.Items[i] = Item{Product: p, Quantity: item.Quantity + quantity}
			return nil
		}
	}
	o.Items = append(o.Items, Item{Product: p, Quantity: quantity})
	return nil
}

// Subtotal returns the sum of all item subtotals, zero for an empty order.
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.Subtotal())
	}
	return sum
}

// ApplyDiscount records a discount on the order. At most one discount may
// ever be applied, and the amount must not exceed what the percentage yields
// against the current subtotal.
func (o *Order) ApplyDiscount(amount, percentage decimal.Decimal, reason string) error {
	if !amount.IsPositive() || !percentage.IsPositive() {
		return ErrDiscountNotPositive
	}
	if o.Discount != nil {
		return ErrDiscountAlreadyApplied
	}

	limit := o.Subtotal().Mul(percentage).Div(hundred)
	if amount.GreaterThan(limit) {
		return ErrDiscountMismatch
	}

	o.Discount = &Discount{Amount: amount, Percentage: percentage, Reason: reason}
	return nil
}

// Total returns the subtotal minus the applied discount, if any.
func (o *Order) Total() decimal.Decimal {
	total := o.Subtotal()
	if o.Discount != nil {
		total = total.Sub(o.Discount.Amount)
	}
	return total
}

// ChangeStatus moves the order to next. Transitions out of CLOSED or
// CANCELLED are rejected.
func (o *Order) ChangeStatus(next Status) error {
	if !next.Valid() {
		return ErrUnknownStatus
	}
	if !o.Status.CanTransitionTo(next) {
		return &TerminalStateError{Current: o.Status, Requested: next}
	}
	o.Status = next
	return nil
}

// IsModifiable reports whether items may still be added.
func (o *Order) IsModifiable() bool {
	return o.Status == StatusCreated || o.Status == StatusInProgress
}

// Repository defines persistence operations for orders. Save overwrites any
// previous state of the same order (last write wins per identifier); FindAll
// returns orders in insertion order.
type Repository interface {
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	FindAll(ctx context.Context) ([]Order, error)
}
