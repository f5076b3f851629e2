//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"myMarketplace/domain"
	repo "myMarketplace/internal/repository/redis"
	"myMarketplace/pkg/serrors"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *goredis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestTokenRepository(t *testing.T) {
	client := startRedis(t)
	tokens := repo.NewTokenRepository(client)
	ctx := context.Background()

	data := domain.AuthToken{AccountKey: "buyer:1", Role: domain.RoleBuyer, Token: "abc", IssuedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, tokens.StoreToken(ctx, data, time.Hour))

	key, err := tokens.ValidateToken(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "buyer:1", key)

	stored, err := tokens.GetAuthToken(ctx, "buyer:1")
	require.NoError(t, err)
	assert.Equal(t, "abc", stored.Token)

	require.NoError(t, tokens.DeleteToken(ctx, "abc"))

	_, err = tokens.ValidateToken(ctx, "abc")
	assert.ErrorIs(t, err, serrors.ErrUnauthorized)
	assert.ErrorIs(t, tokens.DeleteToken(ctx, "abc"), serrors.ErrUnauthorized)
}
