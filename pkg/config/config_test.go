package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should fail without jwt secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("DB_PASSWORD", "secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt secret")
	})

	t.Run("should fail without database password", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "jwt")
		t.Setenv("DB_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database password")
	})

	t.Run("should apply defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "jwt")
		t.Setenv("DB_PASSWORD", "secret")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
		assert.Equal(t, 5, cfg.Delivery.MaxActiveDeliveries)
		assert.Equal(t, "@every 30s", cfg.Delivery.Schedule)
		assert.InDelta(t, 0.02, cfg.Delivery.MidTierRate, 1e-9)
		assert.Equal(t, "order_events", cfg.Kafka.OrderTopic)
	})

	t.Run("should reject non increasing tiers", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "jwt")
		t.Setenv("DB_PASSWORD", "secret")
		t.Setenv("EARNING_LOW_TIER_MAX", "3000")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", cfg.DSN())
}
