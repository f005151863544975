package repository

import (
	"context"
	"fmt"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/database"
	"github.com/taskflow/core/internal/ports"
)

const categorySelect = `SELECT id, name, color, created_at, updated_at FROM categories`

var categoryOrdering = map[string]string{
	"name":       "name",
	"created_at": "created_at",
}

// CategoryRepositoryImpl implements the CategoryRepository interface
type CategoryRepositoryImpl struct {
	db *database.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *database.DB) ports.CategoryRepository {
	return &CategoryRepositoryImpl{db: db}
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *entities.Category) error {
	query := r.db.DB.Rebind(`
		INSERT INTO categories (name, color, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`)

	err := r.db.DB.QueryRowxContext(ctx, query,
		category.Name, category.Color, category.CreatedAt, category.UpdatedAt,
	).Scan(&category.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrCategoryExists
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *CategoryRepositoryImpl) GetByID(ctx context.Context, id int64) (*entities.Category, error) {
	return r.getBy(ctx, "id", id)
}

func (r *CategoryRepositoryImpl) GetByName(ctx context.Context, name string) (*entities.Category, error) {
	return r.getBy(ctx, "name", name)
}

func (r *CategoryRepositoryImpl) getBy(ctx context.Context, column string, value interface{}) (*entities.Category, error) {
	query := r.db.DB.Rebind(fmt.Sprintf("%s WHERE %s = ?", categorySelect, column))

	var category entities.Category
	if err := r.db.DB.GetContext(ctx, &category, query, value); err != nil {
		if isNoRows(err) {
			return nil, entities.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category by %s: %w", column, err)
	}

	return &category, nil
}

func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *entities.Category) error {
	query := r.db.DB.Rebind(`UPDATE categories SET name = ?, color = ?, updated_at = ? WHERE id = ?`)

	result, err := r.db.DB.ExecContext(ctx, query, category.Name, category.Color, category.UpdatedAt, category.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return entities.ErrCategoryExists
		}
		return fmt.Errorf("update category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrCategoryNotFound
	}

	return nil
}

func (r *CategoryRepositoryImpl) Delete(ctx context.Context, id int64) error {
	query := r.db.DB.Rebind(`DELETE FROM categories WHERE id = ?`)

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrCategoryNotFound
	}

	return nil
}

func (r *CategoryRepositoryImpl) List(ctx context.Context, filter ports.CategoryFilter) ([]*entities.Category, int, error) {
	var where conditions
	where.search(filter.Search, "name")

	var total int
	countQuery := r.db.DB.Rebind("SELECT COUNT(*) FROM categories " + where.where())
	if err := r.db.DB.GetContext(ctx, &total, countQuery, where.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	page, args := paginate(filter.ListParams, where.args)
	query := r.db.DB.Rebind(fmt.Sprintf("%s %s %s %s",
		categorySelect, where.where(),
		orderBy(filter.Ordering, categoryOrdering, "name ASC", "id ASC"),
		page,
	))

	categories := []*entities.Category{}
	if err := r.db.DB.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, total, nil
}
