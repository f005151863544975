package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/database"
	"github.com/taskflow/core/internal/ports"
)

// AuthRepositoryImpl keeps refresh tokens in the refresh_tokens table. It is
// used when Redis is disabled.
type AuthRepositoryImpl struct {
	db *database.DB
}

// NewAuthRepository creates a new auth repository
func NewAuthRepository(db *database.DB) ports.AuthRepository {
	return &AuthRepositoryImpl{db: db}
}

func (r *AuthRepositoryImpl) CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	query := r.db.DB.Rebind(`
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?)`)

	_, err := r.db.DB.ExecContext(ctx, query, userID, tokenHash, expiresAt.UTC(), nowUTC())
	if err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}

	return nil
}

func (r *AuthRepositoryImpl) GetRefreshToken(ctx context.Context, tokenHash string) (*ports.RefreshToken, error) {
	query := r.db.DB.Rebind(`
		SELECT id, user_id, token_hash, expires_at, created_at, revoked_at
		FROM refresh_tokens
		WHERE token_hash = ?`)

	var token ports.RefreshToken
	if err := r.db.DB.GetContext(ctx, &token, query, tokenHash); err != nil {
		if isNoRows(err) {
			return nil, entities.ErrInvalidToken
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}

	return &token, nil
}

func (r *AuthRepositoryImpl) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	query := r.db.DB.Rebind(`
		UPDATE refresh_tokens
		SET revoked_at = ?
		WHERE token_hash = ? AND revoked_at IS NULL`)

	if _, err := r.db.DB.ExecContext(ctx, query, nowUTC(), tokenHash); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	return nil
}

func (r *AuthRepositoryImpl) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	query := r.db.DB.Rebind(`
		UPDATE refresh_tokens
		SET revoked_at = ?
		WHERE user_id = ? AND revoked_at IS NULL`)

	if _, err := r.db.DB.ExecContext(ctx, query, nowUTC(), userID); err != nil {
		return fmt.Errorf("revoke all user tokens: %w", err)
	}

	return nil
}
