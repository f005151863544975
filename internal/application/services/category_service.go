package services

import (
	"context"
	"errors"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// CategoryService manages the global category labels. Any authenticated user
// may change them.
type CategoryService struct {
	categoryRepo ports.CategoryRepository
	logger       *logger.Logger
	now          Clock
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo ports.CategoryRepository, logger *logger.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		logger:       logger.WithComponent("category_service"),
		now:          UTCClock,
	}
}

func (s *CategoryService) CreateCategory(ctx context.Context, actor entities.Actor, req ports.CreateCategoryRequest) (*entities.Category, error) {
	name, err := requiredText("name", req.Name)
	if err != nil {
		return nil, err
	}

	now := s.now()
	category := &entities.Category{
		Name:      name,
		Color:     req.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if category.Color == "" {
		category.Color = entities.DefaultCategoryColor
	}

	if err := s.ensureNameFree(ctx, category.Name, 0); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Infow("Category created", "category_id", category.ID, "name", category.Name, "user_id", actor.UserID)
	return category, nil
}

func (s *CategoryService) ListCategories(ctx context.Context, filter ports.CategoryFilter) ([]*entities.Category, int, error) {
	return s.categoryRepo.List(ctx, filter)
}

func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*entities.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, actor entities.Actor, id int64, req ports.UpdateCategoryRequest) (*entities.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name, err := requiredText("name", *req.Name)
		if err != nil {
			return nil, err
		}
		if err := s.ensureNameFree(ctx, name, category.ID); err != nil {
			return nil, err
		}
		category.Name = name
	}
	if req.Color != nil && *req.Color != "" {
		category.Color = *req.Color
	}
	category.UpdatedAt = s.now()

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Infow("Category updated", "category_id", category.ID, "user_id", actor.UserID)
	return category, nil
}

// DeleteCategory removes the label; tasks filed under it lose their category
func (s *CategoryService) DeleteCategory(ctx context.Context, actor entities.Actor, id int64) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Category deleted", "category_id", id, "user_id", actor.UserID)
	return nil
}

func (s *CategoryService) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return entities.ErrCategoryExists
	}
	return nil
}
