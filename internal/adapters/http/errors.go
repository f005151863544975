package http

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// StatusFor maps an error to the HTTP status it is reported with
func StatusFor(err error) int {
	var he *echo.HTTPError
	var ve validator.ValidationErrors

	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, entities.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, entities.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders every error as an ErrorResponse. Internal errors are
// logged and their message is not exposed.
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := StatusFor(err)
		body := ports.ErrorResponse{Message: http.StatusText(code)}

		var he *echo.HTTPError
		var ve validator.ValidationErrors
		var de *entities.DomainError

		switch {
		case errors.As(err, &he):
			if msg, ok := he.Message.(string); ok {
				body.Message = msg
			}
			if he.Internal != nil {
				body.Details = map[string]interface{}{"error": he.Internal.Error()}
			}
		case errors.As(err, &ve):
			body.Message = "validation failed"
			body.Details = validationDetails(ve)
		case errors.As(err, &de):
			body.Message = de.Message
		}

		if code >= http.StatusInternalServerError {
			log.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path, "method", c.Request().Method)
			body = ports.ErrorResponse{Message: http.StatusText(code)}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			log.Errorw("Error sending response", "error", err)
		}
	}
}

func validationDetails(errs validator.ValidationErrors) map[string]interface{} {
	details := make(map[string]interface{}, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}
