package orders

import (
	"context"
	"testing"
	"time"

	"myMarketplace/domain"
	"myMarketplace/internal/repository/postgres"
	"myMarketplace/internal/repository/postgres/postgrestest"
	"myMarketplace/pkg/config"
	"myMarketplace/pkg/serrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendEmail(ctx context.Context, toName, toEmail, subject, message string) error {
	args := m.Called(ctx, toName, toEmail, subject, message)
	return args.Error(0)
}

type fixture struct {
	db        *gorm.DB
	svc       *OrdersService
	publisher *mockPublisher
	notifier  *mockNotifier
	carts     *postgres.CartRepository
	products  *postgres.ProductRepository
}

func newFixture(t *testing.T) fixture {
	db := postgrestest.NewSQLiteDB(t)
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	notif := new(mockNotifier)
	notif.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	carts := postgres.NewCartRepository(db)
	products := postgres.NewProductRepository(db)
	svc := NewOrdersService(Deps{
		Orders:    postgres.NewOrdersRepository(db),
		Carts:     carts,
		Addresses: postgres.NewAddressRepository(db),
		Products:  products,
		Ledger:    postgres.NewDeliveryRepository(db),
		Buyers:    postgres.NewBuyerRepository(db),
		Publisher: pub,
		Notifier:  notif,
		Tx:        postgres.NewTransactor(db),
	}, config.CheckoutConfig{ShippingFee: 49, FreeShippingThreshold: 999})

	return fixture{db: db, svc: svc, publisher: pub, notifier: notif, carts: carts, products: products}
}

func (f fixture) addToCart(t *testing.T, buyerID, productID uint, qty int) {
	t.Helper()
	require.NoError(t, f.carts.Create(context.Background(), &domain.CartItem{BuyerID: buyerID, ProductID: productID, Quantity: qty}))
}

func (f fixture) stockOf(t *testing.T, productID uint) int {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}

func TestOrdersService_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("should create a pending order and clear the cart", func(t *testing.T) {
		f := newFixture(t)
		buyer := postgrestest.CreateBuyer(t, f.db, "b@example.com")
		seller := postgrestest.CreateSeller(t, f.db, "s@example.com")
		addr := postgrestest.CreateAddress(t, f.db, buyer.ID, "Pune", "411001")
		kettle := postgrestest.CreateProduct(t, f.db, seller.ID, "Kettle", 300, 5)
		mug := postgrestest.CreateProduct(t, f.db, seller.ID, "Mug", 100, 5)
		f.addToCart(t, buyer.ID, kettle.ID, 2)
		f.addToCart(t, buyer.ID, mug.ID, 1)

		order, err := f.svc.Checkout(ctx, buyer.ID, addr.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.OrderStatusPending, order.Status)
		assert.NotEmpty(t, order.OrderNumber)
		assert.Equal(t, 700.0, order.Subtotal)
		assert.Equal(t, 49.0, order.ShippingFee)
		assert.Equal(t, 749.0, order.TotalAmount)
		assert.Equal(t, "Pune", order.ShippingCity)
		assert.Equal(t, "411001", order.ShippingPincode)
		require.Len(t, order.Items, 2)
		assert.Equal(t, seller.ID, order.Items[0].SellerID)

		assert.Equal(t, 3, f.stockOf(t, kettle.ID))
		assert.Equal(t, 4, f.stockOf(t, mug.ID))

		items, err := f.carts.ListByBuyer(ctx, buyer.ID)
		require.NoError(t, err)
		assert.Empty(t, items)

		f.publisher.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
			return e.Type == domain.EventOrderCreated && e.OrderID == order.ID
		}))
		f.notifier.AssertCalled(t, "SendEmail", mock.Anything, mock.Anything, "b@example.com", SubjectOrderPlaced, mock.Anything)
	})

	t.Run("should waive shipping above the threshold", func(t *testing.T) {
		f := newFixture(t)
		buyer := postgrestest.CreateBuyer(t, f.db, "b@example.com")
		seller := postgrestest.CreateSeller(t, f.db, "s@example.com")
		addr := postgrestest.CreateAddress(t, f.db, buyer.ID, "Pune", "411001")
		tv := postgrestest.CreateProduct(t, f.db, seller.ID, "TV", 999, 1)
		f.addToCart(t, buyer.ID, tv.ID, 1)

		order, err := f.svc.Checkout(ctx, buyer.ID, addr.ID)
		require.NoError(t, err)
		assert.Zero(t, order.ShippingFee)
		assert.Equal(t, 999.0, order.TotalAmount)
	})

	t.Run("should reject an empty cart", func(t *testing.T) {
		f := newFixture(t)
		buyer := postgrestest.CreateBuyer(t, f.db, "b@example.com")
		addr := postgrestest.CreateAddress(t, f.db, buyer.ID, "Pune", "411001")

		_, err := f.svc.Checkout(ctx, buyer.ID, addr.ID)
		assert.ErrorIs(t, err, serrors.ErrBadRequest)
	})

	t.Run("should hide another buyer's address", func(t *testing.T) {
		f := newFixture(t)
		buyer := postgrestest.CreateBuyer(t, f.db, "b@example.com")
		other := postgrestest.CreateBuyer(t, f.db, "o@example.com")
		seller := postgrestest.CreateSeller(t, f.db, "s@example.com")
		addr := postgrestest.CreateAddress(t, f.db, other.ID, "Pune", "411001")
		kettle := postgrestest.CreateProduct(t, f.db, seller.ID, "Kettle", 300, 5)
		f.addToCart(t, buyer.ID, kettle.ID, 1)

		_, err := f.svc.Checkout(ctx, buyer.ID, addr.ID)
		assert.ErrorIs(t, err, serrors.ErrNotFound)
	})

	t.Run("should roll back when stock runs out", func(t *testing.T) {
		f := newFixture(t)
		buyer := postgrestest.CreateBuyer(t, f.db, "b@example.com")
		seller := postgrestest.CreateSeller(t, f.db, "s@example.com")
		addr := postgrestest.CreateAddress(t, f.db, buyer.ID, "Pune", "411001")
		kettle := postgrestest.CreateProduct(t, f.db, seller.ID, "Kettle", 300, 5)
		rare := postgrestest.CreateProduct(t, f.db, seller.ID, "Rare", 100, 1)
		f.addToCart(t, buyer.ID, kettle.ID, 2)
		f.addToCart(t, buyer.ID, rare.ID, 1)
		require.NoError(t, f.db.Model(&domain.Product{}).Where("id = ?", rare.ID).Update("stock", 0).Error)

		_, err := f.svc.Checkout(ctx, buyer.ID, addr.ID)
		assert.ErrorIs(t, err, serrors.ErrConflict)

		assert.Equal(t, 5, f.stockOf(t, kettle.ID))
		items, err := f.carts.ListByBuyer(ctx, buyer.ID)
		require.NoError(t, err)
		assert.Len(t, items, 2)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestOrdersService_StatusChanges(t *testing.T) {
	ctx := context.Background()

	t.Run("should let the buyer cancel and restore stock", func(t *testing.T) {
		f := newFixture(t)
		buyer := postgrestest.CreateBuyer(t, f.db, "b@example.com")
		seller := postgrestest.CreateSeller(t, f.db, "s@example.com")
		kettle := postgrestest.CreateProduct(t, f.db, seller.ID, "Kettle", 300, 5)
		order := postgrestest.CreateOrder(t, f.db, buyer.ID, kettle, domain.OrderStatusPending, "Pune", time.Now())

		cancelled, err := f.svc.CancelByBuyer(ctx, buyer.ID, order.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
		assert.NotNil(t, cancelled.CancelledAt)
		assert.Equal(t, 6, f.stockOf(t, kettle.ID))

		_, err = f.svc.CancelByBuyer(ctx, buyer.ID, order.ID)
		assert.ErrorIs(t, err, serrors.ErrConflict)
	})

	t.Run("should not let a buyer touch someone else's order", func(t *testing.T) {
		f := newFixture(t)
		buyer := postgrestest.CreateBuyer(t, f.db, "b@example.com")
		other := postgrestest.CreateBuyer(t, f.db, "o@example.com")
		seller := postgrestest.CreateSeller(t, f.db, "s@example.com")
		kettle := postgrestest.CreateProduct(t, f.db, seller.ID, "Kettle", 300, 5)
		order := postgrestest.CreateOrder(t, f.db, buyer.ID, kettle, domain.OrderStatusPending, "Pune", time.Now())

		_, err := f.svc.GetBuyerOrder(ctx, other.ID, order.ID)
		assert.ErrorIs(t, err, serrors.ErrNotFound)
		_, err = f.svc.CancelByBuyer(ctx, other.ID, order.ID)
		assert.ErrorIs(t, err, serrors.ErrNotFound)
	})

	t.Run("should limit sellers to accept and ship", func(t *testing.T) {
		f := newFixture(t)
		buyer := postgrestest.CreateBuyer(t, f.db, "b@example.com")
		seller := postgrestest.CreateSeller(t, f.db, "s@example.com")
		stranger := postgrestest.CreateSeller(t, f.db, "x@example.com")
		kettle := postgrestest.CreateProduct(t, f.db, seller.ID, "Kettle", 300, 5)
		order := postgrestest.CreateOrder(t, f.db, buyer.ID, kettle, domain.OrderStatusPending, "Pune", time.Now())

		_, err := f.svc.UpdateStatusBySeller(ctx, stranger.ID, order.ID, domain.OrderStatusProcessing)
		assert.ErrorIs(t, err, serrors.ErrNotFound)

		_, err = f.svc.UpdateStatusBySeller(ctx, seller.ID, order.ID, domain.OrderStatusDelivered)
		assert.ErrorIs(t, err, serrors.ErrForbidden)

		_, err = f.svc.UpdateStatusBySeller(ctx, seller.ID, order.ID, domain.OrderStatusShipped)
		assert.ErrorIs(t, err, serrors.ErrConflict)

		accepted, err := f.svc.UpdateStatusBySeller(ctx, seller.ID, order.ID, domain.OrderStatusProcessing)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusProcessing, accepted.Status)

		shipped, err := f.svc.UpdateStatusBySeller(ctx, seller.ID, order.ID, domain.OrderStatusShipped)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusShipped, shipped.Status)
		assert.NotNil(t, shipped.ShippedAt)

		list, err := f.svc.ListSellerOrders(ctx, seller.ID, nil)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("should credit the agent on delivery", func(t *testing.T) {
		f := newFixture(t)
		buyer := postgrestest.CreateBuyer(t, f.db, "b@example.com")
		seller := postgrestest.CreateSeller(t, f.db, "s@example.com")
		agent := postgrestest.CreateAgent(t, f.db, "a@example.com", "Pune", "411001", time.Now())
		kettle := postgrestest.CreateProduct(t, f.db, seller.ID, "Kettle", 300, 5)
		order := postgrestest.CreateOrder(t, f.db, buyer.ID, kettle, domain.OrderStatusProcessing, "Pune", time.Now())
		postgrestest.AssignOrder(t, f.db, order.ID, agent.ID, domain.OrderStatusAssigned)
		require.NoError(t, f.db.Model(&domain.Order{}).Where("id = ?", order.ID).Update("agent_earning", 30).Error)

		delivered, err := f.svc.Transition(ctx, order.ID, domain.OrderStatusDelivered)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusDelivered, delivered.Status)
		assert.NotNil(t, delivered.DeliveredAt)

		var reloaded domain.DeliveryAgent
		require.NoError(t, f.db.First(&reloaded, agent.ID).Error)
		assert.Equal(t, 30.0, reloaded.TotalEarnings)

		_, err = f.svc.Transition(ctx, order.ID, domain.OrderStatusCancelled)
		assert.ErrorIs(t, err, serrors.ErrConflict)
	})

	t.Run("should reserve ASSIGNED for the assignment flow", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Transition(ctx, 1, domain.OrderStatusAssigned)
		assert.ErrorIs(t, err, serrors.ErrBadRequest)

		_, err = f.svc.Transition(ctx, 1, domain.OrderStatus("LOST"))
		assert.ErrorIs(t, err, serrors.ErrBadRequest)
	})
}
