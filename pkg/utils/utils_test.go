package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", string(hash))
	assert.True(t, CheckPassword("secret123", string(hash)))
	assert.False(t, CheckPassword("wrong", string(hash)))
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	t.Run("should round trip claims", func(t *testing.T) {
		token, err := m.GenerateJWT("42", "seller")
		require.NoError(t, err)

		claims, err := m.ParseJWT(token)
		require.NoError(t, err)
		assert.Equal(t, "42", claims.UserID)
		assert.Equal(t, "seller", claims.Role)
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	})

	t.Run("should reject token signed with another secret", func(t *testing.T) {
		other := NewJWTManager("other-secret", time.Hour)
		token, err := other.GenerateJWT("42", "buyer")
		require.NoError(t, err)

		_, err = m.ParseJWT(token)
		require.Error(t, err)
	})

	t.Run("should reject expired token", func(t *testing.T) {
		expired := NewJWTManager("test-secret", -time.Minute)
		token, err := expired.GenerateJWT("42", "buyer")
		require.NoError(t, err)

		_, err = m.ParseJWT(token)
		require.ErrorIs(t, err, jwt.ErrTokenExpired)
	})
}
