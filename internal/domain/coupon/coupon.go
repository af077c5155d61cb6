package coupon

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

var (
	// ErrInvalidPercent is returned when constructing a coupon whose
	// percentage lies outside [0, 100].
	ErrInvalidPercent = errors.New("discount percent must be between 0 and 100")
	// ErrNotFound is returned when no stored coupon exists for a code.
	ErrNotFound = errors.New("coupon not found")
)

// Coupon is a stored discount code with a fixed value and a percentage.
type Coupon struct {
	Code            string
	DiscountValue   decimal.Decimal
	DiscountPercent decimal.Decimal
}

// New constructs a validated coupon. The percentage must lie in [0, 100].
func New(code string, value, percent decimal.Decimal) (*Coupon, error) {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return nil, ErrInvalidPercent
	}
	return &Coupon{
		Code:            code,
		DiscountValue:   value,
		DiscountPercent: percent,
	}, nil
}

// Repository provides lookup of stored coupons by their code.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Coupon, error)
}
