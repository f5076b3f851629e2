package wishlist

import (
	"context"
	"testing"

	"myMarketplace/business/cart"
	"myMarketplace/internal/repository/postgres"
	"myMarketplace/internal/repository/postgres/postgrestest"
	"myMarketplace/pkg/serrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistService(t *testing.T) {
	db := postgrestest.NewSQLiteDB(t)
	products := postgres.NewProductRepository(db)
	carts := cart.NewCartService(postgres.NewCartRepository(db), products)
	svc := NewWishlistService(postgres.NewWishlistRepository(db), products, carts, postgres.NewTransactor(db))
	ctx := context.Background()

	buyer := postgrestest.CreateBuyer(t, db, "b@example.com")
	seller := postgrestest.CreateSeller(t, db, "s@example.com")
	kettle := postgrestest.CreateProduct(t, db, seller.ID, "Kettle", 20, 3)
	soldOut := postgrestest.CreateProduct(t, db, seller.ID, "Rare", 20, 0)

	t.Run("should add idempotently", func(t *testing.T) {
		first, err := svc.Add(ctx, buyer.ID, kettle.ID)
		require.NoError(t, err)
		second, err := svc.Add(ctx, buyer.ID, kettle.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		items, err := svc.List(ctx, buyer.ID)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("should reject unknown products", func(t *testing.T) {
		_, err := svc.Add(ctx, buyer.ID, 999)
		assert.ErrorIs(t, err, serrors.ErrNotFound)
	})

	t.Run("should move to cart", func(t *testing.T) {
		c, err := svc.MoveToCart(ctx, buyer.ID, kettle.ID)
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, 1, c.Items[0].Quantity)

		items, err := svc.List(ctx, buyer.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("should keep the wishlist when the cart refuses", func(t *testing.T) {
		_, err := svc.Add(ctx, buyer.ID, soldOut.ID)
		require.NoError(t, err)

		_, err = svc.MoveToCart(ctx, buyer.ID, soldOut.ID)
		assert.ErrorIs(t, err, serrors.ErrConflict)

		items, err := svc.List(ctx, buyer.ID)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("should report missing items", func(t *testing.T) {
		_, err := svc.MoveToCart(ctx, buyer.ID, 999)
		assert.ErrorIs(t, err, serrors.ErrNotFound)
		assert.ErrorIs(t, svc.Remove(ctx, buyer.ID, 999), serrors.ErrNotFound)
	})
}
