package product

import (
	"context"
	"testing"

	"myMarketplace/domain"
	"myMarketplace/internal/repository/postgres"
	"myMarketplace/internal/repository/postgres/postgrestest"
	"myMarketplace/pkg/serrors"
	"myMarketplace/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockIndex struct{ mock.Mock }

func (m *mockIndex) Index(ctx context.Context, p domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockIndex) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockIndex) Search(ctx context.Context, query string, from, size int) (int64, []uint, error) {
	args := m.Called(ctx, query, from, size)
	return args.Get(0).(int64), args.Get(1).([]uint), args.Error(2)
}

func newService(t *testing.T, index SearchIndex) (*productService, *gorm.DB) {
	t.Helper()
	db := postgrestest.NewSQLiteDB(t)
	svc := NewProductService(postgres.NewProductRepository(db), postgres.NewCategoryRepository(db), index, utils.NewValidator())
	return svc, db
}

func TestCreateProduct(t *testing.T) {
	idx := &mockIndex{}
	svc, db := newService(t, idx)
	ctx := context.Background()
	seller := postgrestest.CreateSeller(t, db, "s@example.com")

	t.Run("should create and index", func(t *testing.T) {
		idx.On("Index", mock.Anything, mock.MatchedBy(func(p domain.Product) bool { return p.Name == "Kettle" })).Return(nil).Once()

		p, err := svc.CreateProduct(ctx, seller.ID, CreateProductInput{Name: " Kettle ", Price: 99.999, Stock: 3})
		require.NoError(t, err)
		assert.Equal(t, "Kettle", p.Name)
		assert.Equal(t, 100.0, p.Price)
		assert.Equal(t, seller.ID, p.SellerID)
		idx.AssertExpectations(t)
	})

	t.Run("should validate fields", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, seller.ID, CreateProductInput{Name: "", Price: 10})
		assert.Equal(t, "product name is required", serrors.PublicMessage(err))

		_, err = svc.CreateProduct(ctx, seller.ID, CreateProductInput{Name: "X", Price: 0})
		assert.Equal(t, "price must be greater than 0", serrors.PublicMessage(err))

		_, err = svc.CreateProduct(ctx, seller.ID, CreateProductInput{Name: "X", Price: 1, Stock: -1})
		assert.Equal(t, "stock cannot be negative", serrors.PublicMessage(err))

		missing := uint(42)
		_, err = svc.CreateProduct(ctx, seller.ID, CreateProductInput{Name: "X", Price: 1, CategoryID: &missing})
		assert.ErrorIs(t, err, serrors.ErrBadRequest)
	})

	t.Run("should not fail when indexing fails", func(t *testing.T) {
		idx.On("Index", mock.Anything, mock.Anything).Return(assert.AnError).Once()
		_, err := svc.CreateProduct(ctx, seller.ID, CreateProductInput{Name: "Toaster", Price: 20})
		assert.NoError(t, err)
	})
}

func TestUpdateAndDeleteProduct_Ownership(t *testing.T) {
	svc, db := newService(t, nil)
	ctx := context.Background()

	owner := postgrestest.CreateSeller(t, db, "owner@example.com")
	other := postgrestest.CreateSeller(t, db, "other@example.com")
	p := postgrestest.CreateProduct(t, db, owner.ID, "Kettle", 50, 5)

	price := 60.0
	_, err := svc.UpdateProduct(ctx, other.ID, p.ID, UpdateProductInput{Price: &price})
	assert.ErrorIs(t, err, serrors.ErrForbidden)

	updated, err := svc.UpdateProduct(ctx, owner.ID, p.ID, UpdateProductInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 60.0, updated.Price)
	assert.Equal(t, 5, updated.Stock)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, other.ID, p.ID), serrors.ErrForbidden)
	require.NoError(t, svc.DeleteProduct(ctx, owner.ID, p.ID))

	_, err = svc.GetProductByID(ctx, p.ID)
	assert.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestSearchProducts(t *testing.T) {
	t.Run("should load hits from the database in index order", func(t *testing.T) {
		idx := &mockIndex{}
		svc, db := newService(t, idx)
		seller := postgrestest.CreateSeller(t, db, "s@example.com")
		a := postgrestest.CreateProduct(t, db, seller.ID, "Steel Kettle", 50, 5)
		b := postgrestest.CreateProduct(t, db, seller.ID, "Electric Kettle", 80, 5)

		idx.On("Search", mock.Anything, "kettle", 0, 20).Return(int64(2), []uint{b.ID, a.ID}, nil).Once()

		page, err := svc.SearchProducts(context.Background(), "kettle", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
		require.Len(t, page.Products, 2)
		assert.Equal(t, b.ID, page.Products[0].ID)
	})

	t.Run("should fall back to the database without an index", func(t *testing.T) {
		svc, db := newService(t, nil)
		seller := postgrestest.CreateSeller(t, db, "s@example.com")
		postgrestest.CreateProduct(t, db, seller.ID, "Steel Kettle", 50, 5)
		postgrestest.CreateProduct(t, db, seller.ID, "Toaster", 80, 5)

		page, err := svc.SearchProducts(context.Background(), "KETTLE", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("should fall back when the index errors", func(t *testing.T) {
		idx := &mockIndex{}
		svc, db := newService(t, idx)
		seller := postgrestest.CreateSeller(t, db, "s@example.com")
		postgrestest.CreateProduct(t, db, seller.ID, "Steel Kettle", 50, 5)

		idx.On("Search", mock.Anything, "kettle", 0, 20).Return(int64(0), []uint(nil), assert.AnError).Once()

		page, err := svc.SearchProducts(context.Background(), "kettle", 1, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("should require a query", func(t *testing.T) {
		svc, _ := newService(t, nil)
		_, err := svc.SearchProducts(context.Background(), "  ", 1, 10)
		assert.ErrorIs(t, err, serrors.ErrBadRequest)
	})
}

func TestReindex(t *testing.T) {
	idx := &mockIndex{}
	svc, db := newService(t, idx)
	seller := postgrestest.CreateSeller(t, db, "s@example.com")
	postgrestest.CreateProduct(t, db, seller.ID, "A", 1, 1)
	postgrestest.CreateProduct(t, db, seller.ID, "B", 1, 1)

	idx.On("Index", mock.Anything, mock.Anything).Return(nil).Twice()

	n, err := svc.Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	idx.AssertExpectations(t)

	noIndex, _ := newService(t, nil)
	_, err = noIndex.Reindex(context.Background())
	assert.ErrorIs(t, err, serrors.ErrBadRequest)
}
