package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/ports"
)

// bind decodes the request body into req and validates it
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format").SetInternal(err)
	}
	return c.Validate(req)
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}

// listParams reads search, ordering, limit and offset
func listParams(c echo.Context) (ports.ListParams, error) {
	var p ports.ListParams
	err := echo.QueryParamsBinder(c).
		String("search", &p.Search).
		String("ordering", &p.Ordering).
		Int("limit", &p.Limit).
		Int("offset", &p.Offset).
		BindError()
	if err != nil {
		return p, queryError(err)
	}
	return p, nil
}

func queryError(err error) error {
	var be *echo.BindingError
	if errors.As(err, &be) {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid query parameter %s", be.Field))
	}
	return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
}

func invalidQuery(name string) error {
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid query parameter %s", name))
}

func queryInt64(c echo.Context, name string) (*int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, invalidQuery(name)
	}
	return &v, nil
}

func queryBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, invalidQuery(name)
	}
	return &v, nil
}

func queryUUID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := uuid.Parse(raw)
	if err != nil {
		return nil, invalidQuery(name)
	}
	return &v, nil
}

func queryString(c echo.Context, name string) *string {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	return &raw
}

func taskFilter(c echo.Context) (ports.TaskFilter, error) {
	var (
		f   ports.TaskFilter
		err error
	)

	if f.ListParams, err = listParams(c); err != nil {
		return f, err
	}
	if f.TeamID, err = queryInt64(c, "team"); err != nil {
		return f, err
	}
	if f.CategoryID, err = queryInt64(c, "category"); err != nil {
		return f, err
	}
	if f.ResponsibleID, err = queryUUID(c, "responsible"); err != nil {
		return f, err
	}
	if f.IsCompleted, err = queryBool(c, "is_completed"); err != nil {
		return f, err
	}
	if raw := queryString(c, "status"); raw != nil {
		status := entities.TaskStatus(*raw)
		if !status.IsValid() {
			return f, invalidQuery("status")
		}
		f.Status = &status
	}
	if raw := queryString(c, "priority"); raw != nil {
		priority := entities.Priority(*raw)
		if !priority.IsValid() {
			return f, invalidQuery("priority")
		}
		f.Priority = &priority
	}

	return f, nil
}

func projectFilter(c echo.Context) (ports.ProjectFilter, error) {
	var (
		f   ports.ProjectFilter
		err error
	)

	if f.ListParams, err = listParams(c); err != nil {
		return f, err
	}
	if f.TeamID, err = queryInt64(c, "team"); err != nil {
		return f, err
	}
	if raw := queryString(c, "status"); raw != nil {
		status := entities.ProjectStatus(*raw)
		if !status.IsValid() {
			return f, invalidQuery("status")
		}
		f.Status = &status
	}

	return f, nil
}

func teamFilter(c echo.Context) (ports.TeamFilter, error) {
	var (
		f   ports.TeamFilter
		err error
	)

	if f.ListParams, err = listParams(c); err != nil {
		return f, err
	}
	if f.IsActive, err = queryBool(c, "is_active"); err != nil {
		return f, err
	}
	if f.TeamLeadID, err = queryUUID(c, "team_lead"); err != nil {
		return f, err
	}

	return f, nil
}

// paginated wraps a page of results with the effective paging bounds
func paginated[T any](c echo.Context, data []T, total int, params ports.ListParams) error {
	limit, offset := params.Page()
	if data == nil {
		data = []T{}
	}
	return c.JSON(http.StatusOK, ports.PaginatedResponse[T]{
		Data:   data,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}
