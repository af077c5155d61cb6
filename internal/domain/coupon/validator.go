package coupon

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// MaxDiscountPercent caps every coupon at a 10% discount.
var MaxDiscountPercent = decimal.NewFromInt(10)

// codePrefix is the literal prefix of self-describing coupon codes.
const codePrefix = "DESC"

// Validator resolves a coupon code into a discount percentage. Codes that
// are blank, unknown, malformed, or over the cap resolve to a zero
// percentage rather than an error; only infrastructure failures are
// reported.
type Validator interface {
	Validate(ctx context.Context, code string) (decimal.Decimal, error)
}

// CodeValidator derives the percentage from the code itself: "DESC10" means
// 10% off. It consults no external state and never fails.
type CodeValidator struct{}

// Validate parses the code's numeric suffix as the discount percentage.
func (CodeValidator) Validate(_ context.Context, code string) (decimal.Decimal, error) {
	if !strings.HasPrefix(code, codePrefix) {
		return decimal.Zero, nil
	}
	percent, err := decimal.NewFromString(strings.TrimPrefix(code, codePrefix))
	if err != nil {
		return decimal.Zero, nil
	}
	if !percent.IsPositive() || percent.GreaterThan(MaxDiscountPercent) {
		return decimal.Zero, nil
	}
	return percent, nil
}

var _ Validator = CodeValidator{}

// RepoValidator resolves codes against stored coupons, applying the same
// percentage cap as CodeValidator. Unknown codes degrade to a zero
// discount.
type RepoValidator struct {
	repo Repository
}

// NewRepoValidator creates a RepoValidator backed by the given Repository.
func NewRepoValidator(repo Repository) *RepoValidator {
	return &RepoValidator{repo: repo}
}

// Validate looks up the stored coupon for the given code and returns its
// percentage when it lies in (0, MaxDiscountPercent].
func (v *RepoValidator) Validate(ctx context.Context, code string) (decimal.Decimal, error) {
	c, err := v.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, errors.Wrap(err, "lookup coupon")
	}

	percent := c.DiscountPercent
	if !percent.IsPositive() || percent.GreaterThan(MaxDiscountPercent) {
		return decimal.Zero, nil
	}
	return percent, nil
}

var _ Validator = (*RepoValidator)(nil)
