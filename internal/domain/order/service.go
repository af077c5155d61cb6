package order

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/tableside/restaurant-orders/internal/domain/coupon"
	"github.com/tableside/restaurant-orders/internal/domain/product"
)

// Sentinel errors for use-case guards.
var (
	// ErrNotInProgress is returned when marking an order delivered that is
	// not currently in progress.
	ErrNotInProgress = errors.New("only in-progress orders can be delivered")
	// ErrNotDelivered is returned when closing an order that has not been
	// delivered yet.
	ErrNotDelivered = errors.New("only delivered orders can be closed")
)

// Service orchestrates the order lifecycle against the order repository, the
// product catalog, and the coupon validator. It is the only component that
// persists order state changes.
type Service struct {
	orders   Repository
	products product.Repository
	coupons  coupon.Validator
}

// NewService creates an order Service with the required domain dependencies.
func NewService(orders Repository, products product.Repository, coupons coupon.Validator) *Service {
	return &Service{
		orders:   orders,
		products: products,
		coupons:  coupons,
	}
}

// CreateOrder constructs an order for the given table, persists it, and
// returns it. An invalid table number is propagated to the caller.
func (s *Service) CreateOrder(ctx context.Context, tableNumber int) (*Order, error) {
	o, err := New(tableNumber)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, errors.Wrap(err, "save order")
	}
	return o, nil
}

// AddItem adds quantity units of the given product to an open order and
// moves it to IN_PROGRESS. Items can only be added while the order is in
// CREATED or IN_PROGRESS.
func (s *Service) AddItem(ctx context.Context, orderID, productID string, quantity int) (*Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsModifiable() {
		return nil, &NotModifiableError{Status: o.Status}
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "get product")
	}

	if err := o.AddItem(*p, quantity); err != nil {
		return nil, err
	}
	if err := o.ChangeStatus(StatusInProgress); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, errors.Wrap(err, "save order")
	}
	return o, nil
}

// MarkDelivered moves an in-progress order to DELIVERED.
func (s *Service) MarkDelivered(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusInProgress {
		return nil, ErrNotInProgress
	}

	if err := o.ChangeStatus(StatusDelivered); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, errors.Wrap(err, "save order")
	}
	return o, nil
}

// CloseOrder closes a delivered order, redeeming the coupon code first when
// one is provided. Codes that resolve to a zero percentage are ignored;
// valid codes discount the subtotal by the resolved percentage.
func (s *Service) CloseOrder(ctx context.Context, orderID, couponCode string) (*Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusDelivered {
		return nil, ErrNotDelivered
	}

	if strings.TrimSpace(couponCode) != "" {
		percent, err := s.coupons.Validate(ctx, couponCode)
		if err != nil {
			return nil, errors.Wrap(err, "validate coupon")
		}
		if percent.IsPositive() {
			amount := o.Subtotal().Mul(percent).Div(hundred)
			if err := o.ApplyDiscount(amount, percent, couponCode); err != nil {
				return nil, err
			}
		}
	}

	if err := o.ChangeStatus(StatusClosed); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, errors.Wrap(err, "save order")
	}
	return o, nil
}

// CancelOrder cancels an order that has not been delivered or closed yet.
// It reports whether the order was cancelled; unknown orders and orders in
// DELIVERED or CLOSED are left untouched.
func (s *Service) CancelOrder(ctx context.Context, orderID string) (bool, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if o.Status == StatusDelivered || o.Status == StatusClosed {
		return false, nil
	}

	if err := o.ChangeStatus(StatusCancelled); err != nil {
		return false, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return false, errors.Wrap(err, "save order")
	}
	return true, nil
}

// ActiveOrders returns all orders that have not reached a terminal status,
// in repository iteration order.
func (s *Service) ActiveOrders(ctx context.Context) ([]Order, error) {
	all, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]Order, 0, len(all))
	for _, o := range all {
		if !o.Status.IsTerminal() {
			active = append(active, o)
		}
	}
	return active, nil
}

// GetOrder returns the order with the given ID.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	return s.orders.FindByID(ctx, orderID)
}
