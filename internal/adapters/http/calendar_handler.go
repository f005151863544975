package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/core/internal/application/services"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// CalendarHandler serves the current user's calendar events
type CalendarHandler struct {
	calendarService *services.CalendarService
	logger          *logger.Logger
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(calendarService *services.CalendarService, logger *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		logger:          logger,
	}
}

// CreateEvent godoc
// @Summary Create a calendar event owned by the current user
// @Tags events
// @Accept json
// @Produce json
// @Param request body ports.CreateCalendarEventRequest true "Event"
// @Success 201 {object} entities.CalendarEvent
// @Failure 400 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /events [post]
func (h *CalendarHandler) CreateEvent(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	var req ports.CreateCalendarEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	event, err := h.calendarService.CreateEvent(c.Request().Context(), actor, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, event)
}

// ListEvents godoc
// @Summary List the current user's events
// @Tags events
// @Produce json
// @Param calendar_id query string false "Calendar"
// @Param ordering query string false "start_time, end_time, title; prefix - for descending"
// @Success 200 {object} ports.PaginatedResponse[entities.CalendarEvent]
// @Security BearerAuth
// @Router /events [get]
func (h *CalendarHandler) ListEvents(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	params, err := listParams(c)
	if err != nil {
		return err
	}

	filter := ports.CalendarEventFilter{ListParams: params, CalendarID: queryString(c, "calendar_id")}
	events, total, err := h.calendarService.ListEvents(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}

	return paginated(c, events, total, params)
}

func (h *CalendarHandler) GetEvent(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	event, err := h.calendarService.GetEvent(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, event)
}

func (h *CalendarHandler) UpdateEvent(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateCalendarEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	event, err := h.calendarService.UpdateEvent(c.Request().Context(), actor, id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, event)
}

func (h *CalendarHandler) DeleteEvent(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.calendarService.DeleteEvent(c.Request().Context(), actor, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
