package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/core/internal/application/services"
	"github.com/taskflow/core/internal/infrastructure/logger"
)

// DashboardHandler serves aggregated statistics
type DashboardHandler struct {
	dashboardService *services.DashboardService
	logger           *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Stats godoc
// @Summary Dashboard statistics over the current user's teams
// @Tags dashboard
// @Produce json
// @Success 200 {object} ports.DashboardStats
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	stats, err := h.dashboardService.Stats(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}
