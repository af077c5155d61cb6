package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tableside/restaurant-orders/internal/domain/product"
)

func testProduct(id string, price int64) product.Product {
	return product.Product{
		ID:       id,
		Name:     "Item " + id,
		Price:    decimal.NewFromInt(price),
		Category: "mains",
	}
}

func TestNew(t *testing.T) {
	o, err := New(4)
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, 4, o.TableNumber)
	assert.Equal(t, StatusCreated, o.Status)
	assert.Empty(t, o.Items)
	assert.Nil(t, o.Discount)
	assert.True(t, o.Subtotal().IsZero())
	assert.True(t, o.Total().IsZero())
}

func TestNew_InvalidTableNumber(t *testing.T) {
	for _, tableNumber := range []int{0, -5} {
		_, err := New(tableNumber)
		require.ErrorIs(t, err, ErrInvalidTableNumber, "table %d", tableNumber)
	}
}

func TestAddItem_MergesSameProduct(t *testing.T) {
	o, err := New(1)
	require.NoError(t, err)

	p := testProduct("p1", 100)
	require.NoError(t, o.AddItem(p, 2))
	require.NoError(t, o.AddItem(p, 3))

	require.Len(t, o.Items, 1)
	assert.Equal(t, 5, o.Items[0].Quantity)
}

func TestAddItem_PreservesInsertionOrder(t *testing.T) {
	o, err := New(1)
	require.NoError(t, err)

	require.NoError(t, o.AddItem(testProduct("p1", 100), 1))
	require.NoError(t, o.AddItem(testProduct("p2", 50), 1))
	require.NoError(t, o.AddItem(testProduct("p1", 100), 1))

	require.Len(t, o.Items, 2)
	assert.Equal(t, "p1", o.Items[0].Product.ID)
	assert.Equal(t, "p2", o.Items[1].Product.ID)
	assert.Equal(t, 2, o.Items[0].Quantity)
}

func TestAddItem_Validation(t *testing.T) {
	o, err := New(1)
	require.NoError(t, err)

	require.ErrorIs(t, o.AddItem(product.Product{}, 1), ErrProductRequired)
	require.ErrorIs(t, o.AddItem(testProduct("p1", 100), 0), ErrInvalidQuantity)
	require.ErrorIs(t, o.AddItem(testProduct("p1", 100), -2), ErrInvalidQuantity)
	assert.Empty(t, o.Items)
}

func TestSubtotal(t *testing.T) {
	o, err := New(1)
	require.NoError(t, err)

	require.NoError(t, o.AddItem(testProduct("p1", 25000), 2))
	require.NoError(t, o.AddItem(testProduct("p2", 8000), 1))

	assert.True(t, o.Subtotal().Equal(decimal.NewFromInt(58000)), "got %s", o.Subtotal())
}

func TestApplyDiscount(t *testing.T) {
	o, err := New(1)
	require.NoError(t, err)
	require.NoError(t, o.AddItem(testProduct("p1", 100), 1))

	err = o.ApplyDiscount(decimal.NewFromInt(10), decimal.NewFromInt(10), "DESC10")
	require.NoError(t, err)

	require.NotNil(t, o.Discount)
	assert.Equal(t, "DESC10", o.Discount.Reason)
	assert.True(t, o.Total().Equal(decimal.NewFromInt(90)), "got %s", o.Total())
}

func TestApplyDiscount_OnlyOnce(t *testing.T) {
	o, err := New(1)
	require.NoError(t, err)
	require.NoError(t, o.AddItem(testProduct("p1", 100), 1))

	require.NoError(t, o.ApplyDiscount(decimal.NewFromInt(5), decimal.NewFromInt(5), "DESC5"))

	// A second discount is rejected regardless of its parameters.
	err = o.ApplyDiscount(decimal.NewFromInt(1), decimal.NewFromInt(1), "DESC1")
	require.ErrorIs(t, err, ErrDiscountAlreadyApplied)
	assert.True(t, o.Discount.Amount.Equal(decimal.NewFromInt(5)))
}

func TestApplyDiscount_AmountMustMatchPercentage(t *testing.T) {
	o, err := New(1)
	require.NoError(t, err)
	require.NoError(t, o.AddItem(testProduct("p1", 100), 1))

	// Subtotal 100 at 10% allows at most 10.
	err = o.ApplyDiscount(decimal.NewFromInt(20), decimal.NewFromInt(10), "DESC10")
	require.ErrorIs(t, err, ErrDiscountMismatch)
	assert.Nil(t, o.Discount)

	require.NoError(t, o.ApplyDiscount(decimal.NewFromInt(10), decimal.NewFromInt(10), "DESC10"))
}

func TestApplyDiscount_RejectsNonPositive(t *testing.T) {
	o, err := New(1)
	require.NoError(t, err)
	require.NoError(t, o.AddItem(testProduct("p1", 100), 1))

	err = o.ApplyDiscount(decimal.Zero, decimal.NewFromInt(10), "DESC10")
	require.ErrorIs(t, err, ErrDiscountNotPositive)

	err = o.ApplyDiscount(decimal.NewFromInt(5), decimal.Zero, "DESC10")
	require.ErrorIs(t, err, ErrDiscountNotPositive)
}

func TestTotal_EqualsSubtotalMinusDiscount(t *testing.T) {
	o, err := New(1)
	require.NoError(t, err)
	require.NoError(t, o.AddItem(testProduct("p1", 200), 3))

	assert.True(t, o.Total().Equal(o.Subtotal()))

	require.NoError(t, o.ApplyDiscount(decimal.NewFromInt(60), decimal.NewFromInt(10), "DESC10"))

	want := o.Subtotal().Sub(o.Discount.Amount)
	assert.True(t, o.Total().Equal(want), "got %s", o.Total())
	assert.False(t, o.Total().IsNegative())
}

func TestChangeStatus(t *testing.T) {
	o, err := New(1)
	require.NoError(t, err)

	require.NoError(t, o.ChangeStatus(StatusInProgress))
	require.NoError(t, o.ChangeStatus(StatusDelivered))
	require.NoError(t, o.ChangeStatus(StatusClosed))
	assert.Equal(t, StatusClosed, o.Status)
}

func TestChangeStatus_Unknown(t *testing.T) {
	o, err := New(1)
	require.NoError(t, err)

	require.ErrorIs(t, o.ChangeStatus(Status("SHIPPED")), ErrUnknownStatus)
	assert.Equal(t, StatusCreated, o.Status)
}

func TestChangeStatus_TerminalIsFinal(t *testing.T) {
	for _, terminal := range []Status{StatusClosed, StatusCancelled} {
		o, err := New(1)
		require.NoError(t, err)
		require.NoError(t, o.ChangeStatus(terminal))

		for _, next := range []Status{StatusCreated, StatusInProgress, StatusDelivered, StatusClosed, StatusCancelled} {
			if next == terminal {
				continue
			}
			err := o.ChangeStatus(next)

			var terminalErr *TerminalStateError
			require.ErrorAs(t, err, &terminalErr, "%s -> %s", terminal, next)
			assert.Equal(t, terminal, terminalErr.Current)
			assert.Equal(t, terminal, o.Status)
		}
	}
}

func TestIsModifiable(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusCreated, true},
		{StatusInProgress, true},
		{StatusDelivered, false},
		{StatusClosed, false},
		{StatusCancelled, false},
	}
	for _, tt := range tests {
		o := &Order{Status: tt.status}
		assert.Equal(t, tt.want, o.IsModifiable(), "status %s", tt.status)
	}
}
