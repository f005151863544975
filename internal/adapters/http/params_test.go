package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/core/internal/domain/entities"
)

func queryContext(rawQuery string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestTaskFilterParsesQuery(t *testing.T) {
	c := queryContext("team=3&status=progress&priority=high&is_completed=false&search=deploy&limit=10&offset=20")

	f, err := taskFilter(c)
	if err != nil {
		t.Fatalf("taskFilter() error = %v", err)
	}

	if f.TeamID == nil || *f.TeamID != 3 {
		t.Errorf("TeamID = %v", f.TeamID)
	}
	if f.Status == nil || *f.Status != entities.TaskStatusProgress {
		t.Errorf("Status = %v", f.Status)
	}
	if f.Priority == nil || *f.Priority != entities.PriorityHigh {
		t.Errorf("Priority = %v", f.Priority)
	}
	if f.IsCompleted == nil || *f.IsCompleted {
		t.Errorf("IsCompleted = %v", f.IsCompleted)
	}
	if f.Search != "deploy" || f.Limit != 10 || f.Offset != 20 {
		t.Errorf("ListParams = %+v", f.ListParams)
	}
	if f.CategoryID != nil || f.ResponsibleID != nil {
		t.Error("unset filters should stay nil")
	}
}

func TestFiltersRejectBadValues(t *testing.T) {
	tests := []struct {
		name  string
		query string
		parse func(echo.Context) error
	}{
		{"limit", "limit=ten", func(c echo.Context) error { _, err := taskFilter(c); return err }},
		{"task status", "status=archived", func(c echo.Context) error { _, err := taskFilter(c); return err }},
		{"priority", "priority=urgent", func(c echo.Context) error { _, err := taskFilter(c); return err }},
		{"responsible", "responsible=nobody", func(c echo.Context) error { _, err := taskFilter(c); return err }},
		{"is_completed", "is_completed=maybe", func(c echo.Context) error { _, err := taskFilter(c); return err }},
		{"project status", "status=done", func(c echo.Context) error { _, err := projectFilter(c); return err }},
		{"team lead", "team_lead=42", func(c echo.Context) error { _, err := teamFilter(c); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parse(queryContext(tt.query))
			if err == nil {
				t.Fatal("expected an error")
			}
			if StatusFor(err) != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", StatusFor(err))
			}
		})
	}
}

func TestPathID(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-4"} {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(raw)

		if _, err := pathID(c, "id"); err == nil {
			t.Errorf("pathID(%q) expected an error", raw)
		}
	}
}
