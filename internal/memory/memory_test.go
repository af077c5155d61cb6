package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tableside/restaurant-orders/internal/domain/coupon"
	"github.com/tableside/restaurant-orders/internal/domain/order"
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

func TestOrderRepository_SaveAndFind(t *testing.T) {
	repo := NewOrderRepository()

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, order.ErrNotFound)

	o, err := order.New(3)
	require.NoError(t, err)
	require.NoError(t, o.AddItem(testProduct("p1", 100), 2))
	require.NoError(t, repo.Save(context.Background(), o))

	found, err := repo.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, found.ID)
	assert.Equal(t, 3, found.TableNumber)
	require.Len(t, found.Items, 1)
}

func TestOrderRepository_ReturnsCopies(t *testing.T) {
	repo := NewOrderRepository()

	o, err := order.New(1)
	require.NoError(t, err)
	require.NoError(t, o.AddItem(testProduct("p1", 100), 1))
	require.NoError(t, repo.Save(context.Background(), o))

	// Mutating a loaded order must not leak into the store until saved.
	loaded, err := repo.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.NoError(t, loaded.ChangeStatus(order.StatusCancelled))

	stored, err := repo.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCreated, stored.Status)
}

func TestOrderRepository_FindAllInsertionOrder(t *testing.T) {
	repo := NewOrderRepository()

	var ids []string
	for table := 1; table <= 3; table++ {
		o, err := order.New(table)
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), o))
		ids = append(ids, o.ID)
	}

	// Overwriting keeps the original position.
	first, err := repo.FindByID(context.Background(), ids[0])
	require.NoError(t, err)
	require.NoError(t, first.ChangeStatus(order.StatusInProgress))
	require.NoError(t, repo.Save(context.Background(), first))

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, o := range all {
		assert.Equal(t, ids[i], o.ID)
	}
	assert.Equal(t, order.StatusInProgress, all[0].Status)
}

func TestProductRepository_CRUD(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()

	p := testProduct("p1", 100)
	require.NoError(t, repo.Create(ctx, p))
	require.ErrorIs(t, repo.Create(ctx, p), product.ErrDuplicateID)

	p.Name = "Renamed"
	require.NoError(t, repo.Update(ctx, p))

	found, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", found.Name)

	require.ErrorIs(t, repo.Update(ctx, testProduct("missing", 1)), product.ErrNotFound)

	require.NoError(t, repo.Create(ctx, testProduct("p2", 50)))
	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "p1", all[0].ID)
	assert.Equal(t, "p2", all[1].ID)

	require.NoError(t, repo.Delete(ctx, "p1"))
	require.ErrorIs(t, repo.Delete(ctx, "p1"), product.ErrNotFound)
	_, err = repo.GetByID(ctx, "p1")
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestProductRepository_Validation(t *testing.T) {
	repo := NewProductRepository()

	err := repo.Create(context.Background(), product.Product{ID: "p1", Price: decimal.NewFromInt(-1), Name: "Bad"})
	require.ErrorIs(t, err, product.ErrInvalidProduct)
}

func TestCouponRepository(t *testing.T) {
	repo := NewCouponRepository()

	_, err := repo.FindByCode(context.Background(), "WELCOME")
	require.ErrorIs(t, err, coupon.ErrNotFound)

	c, err := coupon.New("Welcome", decimal.Zero, decimal.NewFromInt(10))
	require.NoError(t, err)
	repo.Put(*c)

	// Lookup is case-insensitive.
	found, err := repo.FindByCode(context.Background(), "wElCoMe")
	require.NoError(t, err)
	assert.Equal(t, "Welcome", found.Code)
}
