package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/database"
	"github.com/taskflow/core/internal/ports"
)

const userColumns = `id, email, username, password_hash, first_name, last_name,
	is_active, is_superuser, created_at, updated_at`

// UserRepositoryImpl implements the UserRepository interface
type UserRepositoryImpl struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) ports.UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entities.User) error {
	query := r.db.DB.Rebind(`
		INSERT INTO users (id, email, username, password_hash, first_name, last_name,
			is_active, is_superuser, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		user.ID, user.Email, user.Username, user.PasswordHash,
		user.FirstName, user.LastName, user.IsActive, user.IsSuperuser,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "email") {
				return entities.ErrEmailTaken
			}
			return entities.ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepositoryImpl) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *UserRepositoryImpl) getBy(ctx context.Context, column string, value interface{}) (*entities.User, error) {
	query := r.db.DB.Rebind(fmt.Sprintf(`SELECT %s FROM users WHERE %s = ?`, userColumns, column))

	var user entities.User
	if err := r.db.DB.GetContext(ctx, &user, query, value); err != nil {
		if isNoRows(err) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by %s: %w", column, err)
	}

	return &user, nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *entities.User) error {
	query := r.db.DB.Rebind(`
		UPDATE users
		SET first_name = ?, last_name = ?, is_active = ?, is_superuser = ?, password_hash = ?, updated_at = ?
		WHERE id = ?`)

	result, err := r.db.DB.ExecContext(ctx, query,
		user.FirstName, user.LastName, user.IsActive, user.IsSuperuser, user.PasswordHash,
		user.UpdatedAt, user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrUserNotFound
	}

	return nil
}
