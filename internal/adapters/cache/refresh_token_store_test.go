package cache

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/config"
)

func setupTestRedis(t *testing.T) (*RefreshTokenStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return &RefreshTokenStore{client: client, now: time.Now}, mr
}

func TestRefreshTokenStoreRoundTrip(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()
	userID := uuid.New()

	if err := store.CreateRefreshToken(ctx, userID, "abc", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreateRefreshToken() error = %v", err)
	}

	token, err := store.GetRefreshToken(ctx, "abc")
	if err != nil {
		t.Fatalf("GetRefreshToken() error = %v", err)
	}
	if token.UserID != userID || !token.IsValid(time.Now()) {
		t.Errorf("token = %+v", token)
	}

	if ttl := mr.TTL(tokenKey("abc")); ttl <= 0 || ttl > time.Hour {
		t.Errorf("TTL = %v, want within an hour", ttl)
	}
	if ok, _ := mr.SIsMember(userKey(userID), "abc"); !ok {
		t.Error("token missing from the user index")
	}
}

func TestRefreshTokenStoreExpires(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	if err := store.CreateRefreshToken(ctx, uuid.New(), "short", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("CreateRefreshToken() error = %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.GetRefreshToken(ctx, "short"); !errors.Is(err, entities.ErrInvalidToken) {
		t.Errorf("expired GetRefreshToken() error = %v, want invalid token", err)
	}
}

func TestRefreshTokenStoreRevoke(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()
	userID := uuid.New()
	expires := time.Now().Add(time.Hour)

	for _, hash := range []string{"one", "two", "three"} {
		if err := store.CreateRefreshToken(ctx, userID, hash, expires); err != nil {
			t.Fatalf("CreateRefreshToken(%s) error = %v", hash, err)
		}
	}

	if err := store.RevokeRefreshToken(ctx, "one"); err != nil {
		t.Fatalf("RevokeRefreshToken() error = %v", err)
	}
	if _, err := store.GetRefreshToken(ctx, "one"); !errors.Is(err, entities.ErrInvalidToken) {
		t.Errorf("revoked token still readable: %v", err)
	}
	// revoking twice is harmless
	if err := store.RevokeRefreshToken(ctx, "one"); err != nil {
		t.Fatalf("second RevokeRefreshToken() error = %v", err)
	}

	if err := store.RevokeAllUserTokens(ctx, userID); err != nil {
		t.Fatalf("RevokeAllUserTokens() error = %v", err)
	}
	for _, hash := range []string{"two", "three"} {
		if _, err := store.GetRefreshToken(ctx, hash); !errors.Is(err, entities.ErrInvalidToken) {
			t.Errorf("token %s survived revoke all: %v", hash, err)
		}
	}
}

func TestRefreshTokenStoreRejectsExpiredInput(t *testing.T) {
	store, _ := setupTestRedis(t)

	err := store.CreateRefreshToken(context.Background(), uuid.New(), "old", time.Now().Add(-time.Second))
	if err == nil {
		t.Fatal("expected error for a token that is already expired")
	}
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}

	cfg := config.RedisConfig{Host: mr.Host(), Port: port}
	client, err := NewClient(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	client.Close()

	mr.Close()
	if _, err := NewClient(context.Background(), cfg); err == nil {
		t.Fatal("NewClient() against a stopped server: expected error")
	}
}
