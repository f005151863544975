package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", entities.ErrTaskNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", entities.ErrTeamNotFound), http.StatusNotFound},
		{"permission", entities.ErrNotTeamMember, http.StatusForbidden},
		{"validation", entities.ErrInvalidPriority, http.StatusBadRequest},
		{"conflict", entities.ErrEmailTaken, http.StatusConflict},
		{"unauthorized", entities.ErrInvalidCredentials, http.StatusUnauthorized},
		{"echo error", echo.NewHTTPError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.want {
				t.Errorf("StatusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, ports.ErrorResponse) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	ErrorHandler(logger.NewNop())(err, e.NewContext(req, rec))

	var body ports.ErrorResponse
	if decodeErr := json.Unmarshal(rec.Body.Bytes(), &body); decodeErr != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), decodeErr)
	}
	return rec, body
}

func TestErrorHandlerDomainError(t *testing.T) {
	rec, body := renderError(t, entities.ErrLeadCannotLeave)

	if rec.Code != StatusFor(entities.ErrLeadCannotLeave) {
		t.Errorf("status = %d", rec.Code)
	}
	if body.Message != entities.ErrLeadCannotLeave.Message {
		t.Errorf("message = %q", body.Message)
	}
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	rec, body := renderError(t, errors.New("pq: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if body.Message != http.StatusText(http.StatusInternalServerError) || body.Details != nil {
		t.Errorf("internal error leaked: %+v", body)
	}
}

func TestErrorHandlerValidationDetails(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&ports.CreateTeamRequest{})
	if err == nil {
		t.Fatal("expected a validation error")
	}

	rec, body := renderError(t, err)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if body.Details["name"] != "required" {
		t.Errorf("details = %v", body.Details)
	}
}
