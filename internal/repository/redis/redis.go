package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"myMarketplace/domain"
	"myMarketplace/pkg/serrors"

	"github.com/redis/go-redis/v9"
)

// TokenRepository keeps issued access tokens so that logout can revoke them.
//
//	token:account:<role:id>  -> AuthToken of the latest login
//	token:lookup:<token>     -> <role:id>
type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func accountKey(key string) string { return "token:account:" + key }
func lookupKey(token string) string { return "token:lookup:" + token }

func (r *TokenRepository) StoreToken(ctx context.Context, data domain.AuthToken, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal token data: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, accountKey(data.AccountKey), jsonData, ttl)
		pipe.Set(ctx, lookupKey(data.Token), data.AccountKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store token in Redis: %w", err)
	}

	return nil
}

// GetAuthToken returns the latest login of an account.
func (r *TokenRepository) GetAuthToken(ctx context.Context, key string) (*domain.AuthToken, error) {
	val, err := r.client.Get(ctx, accountKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, serrors.With(serrors.ErrNotFound, "token not found")
		}
		return nil, fmt.Errorf("failed to get token from Redis: %w", err)
	}

	var authToken domain.AuthToken
	if err := json.Unmarshal([]byte(val), &authToken); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token data: %w", err)
	}

	return &authToken, nil
}

// ValidateToken returns the account key the token was issued to.
func (r *TokenRepository) ValidateToken(ctx context.Context, token string) (string, error) {
	key, err := r.client.Get(ctx, lookupKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", serrors.With(serrors.ErrUnauthorized, "token not found or expired")
		}
		return "", fmt.Errorf("failed to validate token: %w", err)
	}

	return key, nil
}

// DeleteToken revokes a single token.
func (r *TokenRepository) DeleteToken(ctx context.Context, token string) error {
	key, err := r.ValidateToken(ctx, token)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, lookupKey(token))
		pipe.Del(ctx, accountKey(key))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	return nil
}
