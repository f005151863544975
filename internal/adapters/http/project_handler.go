package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/core/internal/application/services"
	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// ProjectHandler handles project-related requests
type ProjectHandler struct {
	projectService *services.ProjectService
	logger         *logger.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *services.ProjectService, logger *logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// CreateProject godoc
// @Summary Create a new project
// @Description Create a project under a team the current user belongs to
// @Tags projects
// @Accept json
// @Produce json
// @Param request body ports.CreateProjectRequest true "Project data"
// @Success 201 {object} entities.Project
// @Failure 400 {object} ports.ErrorResponse
// @Failure 403 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	var req ports.CreateProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.projectService.CreateProject(c.Request().Context(), actor, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, project)
}

// GetProject godoc
// @Summary Get project by ID
// @Description Project detail with attached tasks
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} entities.Project
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProject(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	project, err := h.projectService.GetProject(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, project)
}

// ListProjects godoc
// @Summary List projects
// @Description List projects of teams the current user leads or belongs to
// @Tags projects
// @Produce json
// @Param status query string false "Project status"
// @Param team query int false "Team ID"
// @Param search query string false "Search title and description"
// @Param ordering query string false "deadline, created_at, status, project_title; prefix - for descending"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ports.PaginatedResponse[entities.Project]
// @Security BearerAuth
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	filter, err := projectFilter(c)
	if err != nil {
		return err
	}

	projects, total, err := h.projectService.ListProjects(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}

	return paginated(c, projects, total, filter.ListParams)
}

// UpdateProject godoc
// @Summary Update project
// @Tags projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body ports.UpdateProjectRequest true "Changes"
// @Success 200 {object} entities.Project
// @Failure 403 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /projects/{id} [patch]
func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.projectService.UpdateProject(c.Request().Context(), actor, id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, project)
}

// DeleteProject godoc
// @Summary Delete project
// @Tags projects
// @Param id path int true "Project ID"
// @Success 204
// @Security BearerAuth
// @Router /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.projectService.DeleteProject(c.Request().Context(), actor, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// StartProject godoc
// @Summary Start a planned or paused project
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} entities.Project
// @Failure 400 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /projects/{id}/start [post]
func (h *ProjectHandler) StartProject(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	project, err := h.projectService.StartProject(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, project)
}

// AddTask godoc
// @Summary Attach a task of the same team
// @Tags projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body ports.ProjectTaskRequest true "Task"
// @Success 200 {object} entities.Project
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /projects/{id}/add_task [post]
func (h *ProjectHandler) AddTask(c echo.Context) error {
	return h.taskLink(c, h.projectService.AddTask)
}

// RemoveTask godoc
// @Summary Detach a task
// @Tags projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body ports.ProjectTaskRequest true "Task"
// @Success 200 {object} entities.Project
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /projects/{id}/remove_task [post]
func (h *ProjectHandler) RemoveTask(c echo.Context) error {
	return h.taskLink(c, h.projectService.RemoveTask)
}

func (h *ProjectHandler) taskLink(c echo.Context,
	apply func(context.Context, entities.Actor, int64, int64) (*entities.Project, error)) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.ProjectTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := apply(c.Request().Context(), actor, id, req.TaskID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, project)
}
