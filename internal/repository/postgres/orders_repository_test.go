package postgres_test

import (
	"context"
	"testing"
	"time"

	"myMarketplace/domain"
	"myMarketplace/internal/repository/postgres"
	"myMarketplace/internal/repository/postgres/postgrestest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdersRepository_ListUnassigned(t *testing.T) {
	db := postgrestest.NewSQLiteDB(t)
	repo := postgres.NewOrdersRepository(db)
	ctx := context.Background()

	buyer := postgrestest.CreateBuyer(t, db, "b@example.com")
	seller := postgrestest.CreateSeller(t, db, "s@example.com")
	agent := postgrestest.CreateAgent(t, db, "a@example.com", "Pune", "411001", time.Time{})
	product := postgrestest.CreateProduct(t, db, seller.ID, "Kettle", 100, 10)

	base := time.Now().UTC().Add(-time.Hour)
	newer := postgrestest.CreateOrder(t, db, buyer.ID, product, domain.OrderStatusProcessing, "Pune", base.Add(2*time.Minute))
	older := postgrestest.CreateOrder(t, db, buyer.ID, product, domain.OrderStatusPending, "Pune", base)
	postgrestest.CreateOrder(t, db, buyer.ID, product, domain.OrderStatusShipped, "Pune", base)
	postgrestest.CreateOrder(t, db, buyer.ID, product, domain.OrderStatusCancelled, "Pune", base)
	taken := postgrestest.CreateOrder(t, db, buyer.ID, product, domain.OrderStatusPending, "Pune", base)
	postgrestest.AssignOrder(t, db, taken.ID, agent.ID, domain.OrderStatusPending)

	t.Run("should return assignable orders oldest first", func(t *testing.T) {
		orders, err := repo.ListUnassigned(ctx, 10)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, older.ID, orders[0].ID)
		assert.Equal(t, newer.ID, orders[1].ID)
	})

	t.Run("should honour the limit", func(t *testing.T) {
		orders, err := repo.ListUnassigned(ctx, 1)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, older.ID, orders[0].ID)
	})
}

func TestOrdersRepository_AssignAgent(t *testing.T) {
	db := postgrestest.NewSQLiteDB(t)
	repo := postgres.NewOrdersRepository(db)
	ctx := context.Background()

	buyer := postgrestest.CreateBuyer(t, db, "b@example.com")
	seller := postgrestest.CreateSeller(t, db, "s@example.com")
	first := postgrestest.CreateAgent(t, db, "a1@example.com", "Pune", "411001", time.Time{})
	second := postgrestest.CreateAgent(t, db, "a2@example.com", "Pune", "411001", time.Time{})
	product := postgrestest.CreateProduct(t, db, seller.ID, "Kettle", 100, 10)
	order := postgrestest.CreateOrder(t, db, buyer.ID, product, domain.OrderStatusPending, "Pune", time.Time{})

	now := time.Now().UTC()
	ok, err := repo.AssignAgent(ctx, order.ID, domain.Assignment{AgentID: first.ID, DeliveryFee: 30, AgentEarning: 30}, now)
	require.NoError(t, err)
	assert.True(t, ok)

	t.Run("should not overwrite an existing assignment", func(t *testing.T) {
		ok, err := repo.AssignAgent(ctx, order.ID, domain.Assignment{AgentID: second.ID}, now)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	got, err := repo.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusAssigned, got.Status)
	assert.True(t, got.IsAssignedTo(first.ID))
	assert.Equal(t, 30.0, got.AgentEarning)
	assert.NotNil(t, got.AssignedAt)
	require.Len(t, got.Items, 1)

	counts, err := repo.ActiveDeliveryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{first.ID: 1}, counts)

	n, err := repo.CountActiveForAgent(ctx, second.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOrdersRepository_TransitionStatus(t *testing.T) {
	db := postgrestest.NewSQLiteDB(t)
	repo := postgres.NewOrdersRepository(db)
	ctx := context.Background()

	buyer := postgrestest.CreateBuyer(t, db, "b@example.com")
	seller := postgrestest.CreateSeller(t, db, "s@example.com")
	product := postgrestest.CreateProduct(t, db, seller.ID, "Kettle", 100, 10)
	order := postgrestest.CreateOrder(t, db, buyer.ID, product, domain.OrderStatusPending, "Pune", time.Time{})

	ok, err := repo.TransitionStatus(ctx, order.ID, domain.OrderStatusPending, domain.OrderStatusCancelled, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TransitionStatus(ctx, order.ID, domain.OrderStatusPending, domain.OrderStatusProcessing, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, ok, "stale from status must not match")

	got, err := repo.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, got.Status)
	assert.NotNil(t, got.CancelledAt)
}

func TestOrdersRepository_ListOrders(t *testing.T) {
	db := postgrestest.NewSQLiteDB(t)
	repo := postgres.NewOrdersRepository(db)
	ctx := context.Background()

	buyer := postgrestest.CreateBuyer(t, db, "b@example.com")
	other := postgrestest.CreateBuyer(t, db, "o@example.com")
	s1 := postgrestest.CreateSeller(t, db, "s1@example.com")
	s2 := postgrestest.CreateSeller(t, db, "s2@example.com")
	p1 := postgrestest.CreateProduct(t, db, s1.ID, "Kettle", 100, 10)
	p2 := postgrestest.CreateProduct(t, db, s2.ID, "Toaster", 200, 10)

	o1 := postgrestest.CreateOrder(t, db, buyer.ID, p1, domain.OrderStatusPending, "Pune", time.Time{})
	postgrestest.CreateOrder(t, db, other.ID, p2, domain.OrderStatusDelivered, "Pune", time.Time{})

	byBuyer, err := repo.ListOrders(ctx, domain.OrderFilter{BuyerID: &buyer.ID})
	require.NoError(t, err)
	require.Len(t, byBuyer, 1)
	assert.Equal(t, o1.ID, byBuyer[0].ID)

	bySeller, err := repo.ListOrders(ctx, domain.OrderFilter{SellerID: &s2.ID})
	require.NoError(t, err)
	require.Len(t, bySeller, 1)
	assert.True(t, bySeller[0].HasSeller(s2.ID))

	byStatus, err := repo.ListOrders(ctx, domain.OrderFilter{Statuses: []domain.OrderStatus{domain.OrderStatusPending}})
	require.NoError(t, err)
	assert.Len(t, byStatus, 1)

	all, err := repo.ListOrders(ctx, domain.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrdersRepository_SellerLines(t *testing.T) {
	db := postgrestest.NewSQLiteDB(t)
	repo := postgres.NewOrdersRepository(db)
	ctx := context.Background()

	buyer := postgrestest.CreateBuyer(t, db, "b@example.com")
	s1 := postgrestest.CreateSeller(t, db, "s1@example.com")
	s2 := postgrestest.CreateSeller(t, db, "s2@example.com")
	p1 := postgrestest.CreateProduct(t, db, s1.ID, "Kettle", 100, 10)
	p2 := postgrestest.CreateProduct(t, db, s2.ID, "Toaster", 200, 10)

	postgrestest.CreateOrder(t, db, buyer.ID, p1, domain.OrderStatusDelivered, "Pune", time.Time{})
	postgrestest.CreateOrder(t, db, buyer.ID, p2, domain.OrderStatusDelivered, "Pune", time.Time{})

	now := time.Now().UTC()
	lines, err := repo.SellerLines(ctx, s1.ID, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, p1.ID, lines[0].ProductID)
	assert.Equal(t, "Kettle", lines[0].ProductName)
	assert.Equal(t, domain.OrderStatusDelivered, lines[0].Status)
}
