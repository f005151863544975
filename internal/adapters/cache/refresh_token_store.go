// Package cache holds the Redis backed adapters.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/config"
	"github.com/taskflow/core/internal/ports"
)

const (
	tokenKeyPrefix = "taskflow:refresh:"
	userKeyPrefix  = "taskflow:refresh:user:"
)

// NewClient connects to Redis and verifies the connection
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// RefreshTokenStore keeps refresh tokens in Redis. Each token lives under its
// own key until it expires; a per-user set indexes them for revocation.
type RefreshTokenStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRefreshTokenStore creates a Redis backed AuthRepository
func NewRefreshTokenStore(client *redis.Client) ports.AuthRepository {
	return &RefreshTokenStore{client: client, now: time.Now}
}

type storedToken struct {
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func tokenKey(tokenHash string) string {
	return tokenKeyPrefix + tokenHash
}

func userKey(userID uuid.UUID) string {
	return userKeyPrefix + userID.String()
}

func (s *RefreshTokenStore) CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	now := s.now()
	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		return fmt.Errorf("create refresh token: already expired")
	}

	payload, err := json.Marshal(storedToken{UserID: userID, ExpiresAt: expiresAt.UTC(), CreatedAt: now.UTC()})
	if err != nil {
		return fmt.Errorf("encode refresh token: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tokenKey(tokenHash), payload, ttl)
		pipe.SAdd(ctx, userKey(userID), tokenHash)
		pipe.Expire(ctx, userKey(userID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}

	return nil
}

func (s *RefreshTokenStore) GetRefreshToken(ctx context.Context, tokenHash string) (*ports.RefreshToken, error) {
	payload, err := s.client.Get(ctx, tokenKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, entities.ErrInvalidToken
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}

	var stored storedToken
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, fmt.Errorf("decode refresh token: %w", err)
	}

	return &ports.RefreshToken{
		UserID:    stored.UserID,
		TokenHash: tokenHash,
		ExpiresAt: stored.ExpiresAt,
		CreatedAt: stored.CreatedAt,
	}, nil
}

// RevokeRefreshToken deletes the token; a revoked token reads as unknown
func (s *RefreshTokenStore) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	token, err := s.GetRefreshToken(ctx, tokenHash)
	if errors.Is(err, entities.ErrInvalidToken) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, tokenKey(tokenHash))
		pipe.SRem(ctx, userKey(token.UserID), tokenHash)
		return nil
	})
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	return nil
}

func (s *RefreshTokenStore) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	hashes, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list user tokens: %w", err)
	}

	keys := make([]string, 0, len(hashes)+1)
	for _, hash := range hashes {
		keys = append(keys, tokenKey(hash))
	}
	keys = append(keys, userKey(userID))

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("revoke all user tokens: %w", err)
	}

	return nil
}
