package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/core/internal/domain/entities"
)

const actorKey = "actor"

// SetActor stores the authenticated identity on the request context
func SetActor(c echo.Context, actor entities.Actor) {
	c.Set(actorKey, actor)
}

// ActorFrom returns the authenticated identity, failing with 401 when the
// request was not authenticated
func ActorFrom(c echo.Context) (entities.Actor, error) {
	actor, ok := c.Get(actorKey).(entities.Actor)
	if !ok {
		return entities.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return actor, nil
}
