package address

import (
	"context"
	"testing"
	"time"

	"myMarketplace/domain"
	"myMarketplace/internal/repository/postgres"
	"myMarketplace/internal/repository/postgres/postgrestest"
	"myMarketplace/pkg/serrors"
	"myMarketplace/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input(label string, isDefault bool) AddressInput {
	return AddressInput{Label: label, RecipientName: "Ravi", Line1: "1 Main St", City: "Pune", Pincode: "411001", IsDefault: isDefault}
}

func defaults(t *testing.T, list []domain.Address) []string {
	t.Helper()
	var out []string
	for _, a := range list {
		if a.IsDefault {
			out = append(out, a.Label)
		}
	}
	return out
}

func TestAddressService(t *testing.T) {
	db := postgrestest.NewSQLiteDB(t)
	svc := NewAddressService(postgres.NewAddressRepository(db), postgres.NewTransactor(db), utils.NewValidator())
	ctx := context.Background()

	buyer := postgrestest.CreateBuyer(t, db, "b@example.com")
	other := postgrestest.CreateBuyer(t, db, "o@example.com")

	home, err := svc.Create(ctx, buyer.ID, input("home", false))
	require.NoError(t, err)
	assert.True(t, home.IsDefault, "first address becomes default")

	time.Sleep(5 * time.Millisecond)
	work, err := svc.Create(ctx, buyer.ID, input("work", false))
	require.NoError(t, err)
	assert.False(t, work.IsDefault)

	t.Run("should keep a single default", func(t *testing.T) {
		time.Sleep(5 * time.Millisecond)
		_, err := svc.Create(ctx, buyer.ID, input("parents", true))
		require.NoError(t, err)

		list, err := svc.List(ctx, buyer.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"parents"}, defaults(t, list))

		_, err = svc.SetDefault(ctx, buyer.ID, home.ID)
		require.NoError(t, err)
		list, err = svc.List(ctx, buyer.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"home"}, defaults(t, list))
	})

	t.Run("should hide other buyers' addresses", func(t *testing.T) {
		_, err := svc.Get(ctx, other.ID, home.ID)
		assert.ErrorIs(t, err, serrors.ErrNotFound)
		assert.ErrorIs(t, svc.Delete(ctx, other.ID, home.ID), serrors.ErrNotFound)
	})

	t.Run("should promote the latest address when the default is deleted", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, buyer.ID, home.ID))

		list, err := svc.List(ctx, buyer.ID)
		require.NoError(t, err)
		assert.Len(t, list, 2)
		assert.Equal(t, []string{"parents"}, defaults(t, list))
	})

	t.Run("should update fields", func(t *testing.T) {
		in := input("office", false)
		in.City = "Mumbai"
		updated, err := svc.Update(ctx, buyer.ID, work.ID, in)
		require.NoError(t, err)
		assert.Equal(t, "Mumbai", updated.City)
		assert.False(t, updated.IsDefault)
	})

	t.Run("should validate", func(t *testing.T) {
		in := input("x", false)
		in.Pincode = ""
		_, err := svc.Create(ctx, buyer.ID, in)
		assert.Equal(t, "pincode is required", serrors.PublicMessage(err))
	})
}
