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

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskService *services.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// CreateTask godoc
// @Summary Create a task in a team the current user belongs to
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ports.CreateTaskRequest true "Task data"
// @Success 201 {object} entities.Task
// @Failure 400 {object} ports.ErrorResponse
// @Failure 403 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	var req ports.CreateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), actor, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, task)
}

// ListTasks godoc
// @Summary List tasks of visible teams
// @Tags tasks
// @Produce json
// @Param status query string false "todo, progress or done"
// @Param priority query string false "low, medium, high or critical"
// @Param is_completed query bool false "Completion flag"
// @Param team query int false "Team ID"
// @Param responsible query string false "Responsible user id"
// @Param category query int false "Category ID"
// @Param search query string false "Search title and description"
// @Param ordering query string false "due_date, priority, created_at, status; prefix - for descending"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ports.PaginatedResponse[entities.Task]
// @Security BearerAuth
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	filter, err := taskFilter(c)
	if err != nil {
		return err
	}

	tasks, total, err := h.taskService.ListTasks(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}

	return paginated(c, tasks, total, filter.ListParams)
}

// GetTask godoc
// @Summary Task detail
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} entities.Task
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// UpdateTask godoc
// @Summary Partially update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param request body ports.UpdateTaskRequest true "Changes"
// @Success 200 {object} entities.Task
// @Failure 400 {object} ports.ErrorResponse
// @Failure 403 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [patch]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), actor, id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete a task
// @Tags tasks
// @Param id path int true "Task ID"
// @Success 204
// @Failure 403 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), actor, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// CompleteTask godoc
// @Summary Mark a task done
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} entities.Task
// @Security BearerAuth
// @Router /tasks/{id}/complete [post]
func (h *TaskHandler) CompleteTask(c echo.Context) error {
	return h.transition(c, h.taskService.CompleteTask)
}

// ReopenTask godoc
// @Summary Reopen a task as todo
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} entities.Task
// @Security BearerAuth
// @Router /tasks/{id}/reopen [post]
func (h *TaskHandler) ReopenTask(c echo.Context) error {
	return h.transition(c, h.taskService.ReopenTask)
}

// OverdueTasks godoc
// @Summary Open tasks due before today
// @Tags tasks
// @Produce json
// @Success 200 {object} ports.PaginatedResponse[entities.Task]
// @Security BearerAuth
// @Router /tasks/overdue [get]
func (h *TaskHandler) OverdueTasks(c echo.Context) error {
	return h.dueList(c, h.taskService.OverdueTasks)
}

// TodayTasks godoc
// @Summary Tasks due today
// @Tags tasks
// @Produce json
// @Success 200 {object} ports.PaginatedResponse[entities.Task]
// @Security BearerAuth
// @Router /tasks/today [get]
func (h *TaskHandler) TodayTasks(c echo.Context) error {
	return h.dueList(c, h.taskService.TodayTasks)
}

func (h *TaskHandler) transition(c echo.Context,
	apply func(context.Context, entities.Actor, int64) (*entities.Task, error)) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	task, err := apply(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) dueList(c echo.Context,
	list func(context.Context, entities.Actor, ports.ListParams) ([]*entities.Task, int, error)) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	params, err := listParams(c)
	if err != nil {
		return err
	}

	tasks, total, err := list(c.Request().Context(), actor, params)
	if err != nil {
		return err
	}

	return paginated(c, tasks, total, params)
}
