package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/tableside/restaurant-orders/internal/domain/coupon"
)

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository stores coupons in memory, keyed case-insensitively.
type CouponRepository struct {
	mu      sync.RWMutex
	coupons map[string]coupon.Coupon
}

// NewCouponRepository returns an empty in-memory coupon store.
func NewCouponRepository() *CouponRepository {
	return &CouponRepository{coupons: make(map[string]coupon.Coupon)}
}

// Put stores a coupon, replacing any existing one with the same code.
func (r *CouponRepository) Put(c coupon.Coupon) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coupons[strings.ToUpper(c.Code)] = c
}

// FindByCode looks up a stored coupon by its code (case-insensitive).
// Returns coupon.ErrNotFound when no matching coupon exists.
func (r *CouponRepository) FindByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.coupons[strings.ToUpper(code)]
	if !ok {
		return nil, coupon.ErrNotFound
	}
	return &c, nil
}
