package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/core/internal/application/services"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// CategoryHandler handles category requests
type CategoryHandler struct {
	categoryService *services.CategoryService
	logger          *logger.Logger
}

func NewCategoryHandler(categoryService *services.CategoryService, logger *logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body ports.CreateCategoryRequest true "Category"
// @Success 201 {object} entities.Category
// @Failure 409 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	var req ports.CreateCategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), actor, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, category)
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} ports.PaginatedResponse[entities.Category]
// @Security BearerAuth
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	params, err := listParams(c)
	if err != nil {
		return err
	}

	categories, total, err := h.categoryService.ListCategories(c.Request().Context(), ports.CategoryFilter{ListParams: params})
	if err != nil {
		return err
	}

	return paginated(c, categories, total, params)
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	category, err := h.categoryService.GetCategory(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateCategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), actor, id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.categoryService.DeleteCategory(c.Request().Context(), actor, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
