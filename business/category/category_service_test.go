package category

import (
	"context"
	"testing"

	"myMarketplace/domain"
	"myMarketplace/internal/repository/postgres"
	"myMarketplace/internal/repository/postgres/postgrestest"
	"myMarketplace/pkg/serrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService(t *testing.T) {
	db := postgrestest.NewSQLiteDB(t)
	svc := NewCategoryService(postgres.NewCategoryRepository(db))
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, &domain.Category{Name: "  Kitchen ", Description: "pots"})
	require.NoError(t, err)
	assert.Equal(t, "Kitchen", created.Name)

	t.Run("should reject blank names", func(t *testing.T) {
		_, err := svc.CreateCategory(ctx, &domain.Category{Name: " "})
		assert.ErrorIs(t, err, serrors.ErrBadRequest)
	})

	t.Run("should update", func(t *testing.T) {
		updated, err := svc.UpdateCategory(ctx, &domain.Category{ID: created.ID, Name: "Cookware"})
		require.NoError(t, err)
		assert.Equal(t, "Cookware", updated.Name)
	})

	t.Run("should list", func(t *testing.T) {
		all, err := svc.GetAllCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("should delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteCategory(ctx, created.ID))
		_, err := svc.GetCategoryByID(ctx, created.ID)
		assert.ErrorIs(t, err, serrors.ErrNotFound)
		assert.ErrorIs(t, svc.DeleteCategory(ctx, created.ID), serrors.ErrNotFound)
	})
}
