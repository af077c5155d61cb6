package coupon

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeValidator(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"DESC10", "10"},
		{"DESC5", "5"},
		{"DESC7.5", "7.5"},
		{"DESC15", "0"},  // exceeds the cap
		{"DESC0", "0"},   // zero discount
		{"DESC-5", "0"},  // negative
		{"SAVE10", "0"},  // wrong prefix
		{"desc10", "0"},  // prefix is case-sensitive
		{"DESCxyz", "0"}, // unparsable suffix
		{"DESC", "0"},    // no suffix
		{"", "0"},
		{"   ", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := CodeValidator{}.Validate(context.Background(), tt.code)
			require.NoError(t, err)

			want := decimal.RequireFromString(tt.want)
			assert.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}
}

func TestNewCoupon(t *testing.T) {
	c, err := New("WELCOME", decimal.NewFromInt(5), decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.Equal(t, "WELCOME", c.Code)

	// Boundary values are accepted.
	_, err = New("ZERO", decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	_, err = New("FULL", decimal.Zero, decimal.NewFromInt(100))
	require.NoError(t, err)

	_, err = New("OVER", decimal.Zero, decimal.NewFromInt(101))
	require.ErrorIs(t, err, ErrInvalidPercent)
	_, err = New("NEG", decimal.Zero, decimal.NewFromInt(-1))
	require.ErrorIs(t, err, ErrInvalidPercent)
}

type mockCouponRepo struct {
	coupon *Coupon
	err    error
}

func (m *mockCouponRepo) FindByCode(_ context.Context, _ string) (*Coupon, error) {
	return m.coupon, m.err
}

func TestRepoValidator(t *testing.T) {
	tests := []struct {
		name    string
		repo    *mockCouponRepo
		want    string
		wantErr bool
	}{
		{
			name: "stored coupon within cap",
			repo: &mockCouponRepo{coupon: &Coupon{Code: "TEN", DiscountPercent: decimal.NewFromInt(10)}},
			want: "10",
		},
		{
			name: "stored coupon over cap degrades to zero",
			repo: &mockCouponRepo{coupon: &Coupon{Code: "HUGE", DiscountPercent: decimal.NewFromInt(50)}},
			want: "0",
		},
		{
			name: "stored coupon with zero percent",
			repo: &mockCouponRepo{coupon: &Coupon{Code: "ZERO", DiscountPercent: decimal.Zero}},
			want: "0",
		},
		{
			name: "unknown code degrades to zero",
			repo: &mockCouponRepo{err: ErrNotFound},
			want: "0",
		},
		{
			name:    "repository failure propagates",
			repo:    &mockCouponRepo{err: errors.New("connection refused")},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRepoValidator(tt.repo).Validate(context.Background(), "ANY")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := decimal.RequireFromString(tt.want)
			assert.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}
}
