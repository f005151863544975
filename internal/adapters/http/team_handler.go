package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/core/internal/application/services"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// TeamHandler handles team-related requests
type TeamHandler struct {
	teamService *services.TeamService
	logger      *logger.Logger
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService *services.TeamService, logger *logger.Logger) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		logger:      logger,
	}
}

// CreateTeam godoc
// @Summary Create a team led by the current user
// @Tags teams
// @Accept json
// @Produce json
// @Param request body ports.CreateTeamRequest true "Team data"
// @Success 201 {object} entities.Team
// @Failure 400 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /teams [post]
func (h *TeamHandler) CreateTeam(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	var req ports.CreateTeamRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	team, err := h.teamService.CreateTeam(c.Request().Context(), actor, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, team)
}

// ListTeams godoc
// @Summary List teams the current user leads or belongs to
// @Tags teams
// @Produce json
// @Param search query string false "Search name and description"
// @Param is_active query bool false "Active flag"
// @Param team_lead query string false "Lead user id"
// @Param ordering query string false "name, created_at; prefix - for descending"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ports.PaginatedResponse[entities.Team]
// @Security BearerAuth
// @Router /teams [get]
func (h *TeamHandler) ListTeams(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	filter, err := teamFilter(c)
	if err != nil {
		return err
	}

	teams, total, err := h.teamService.ListTeams(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}

	return paginated(c, teams, total, filter.ListParams)
}

// GetTeam godoc
// @Summary Team detail with members
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} entities.Team
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id} [get]
func (h *TeamHandler) GetTeam(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	team, err := h.teamService.GetTeam(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, team)
}

// UpdateTeam godoc
// @Summary Update a team (lead only)
// @Tags teams
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param request body ports.UpdateTeamRequest true "Changes"
// @Success 200 {object} entities.Team
// @Failure 403 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id} [patch]
func (h *TeamHandler) UpdateTeam(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateTeamRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	team, err := h.teamService.UpdateTeam(c.Request().Context(), actor, id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, team)
}

// DeleteTeam godoc
// @Summary Delete a team with its tasks and projects (lead only)
// @Tags teams
// @Param id path int true "Team ID"
// @Success 204
// @Failure 403 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id} [delete]
func (h *TeamHandler) DeleteTeam(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.teamService.DeleteTeam(c.Request().Context(), actor, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// TeamTasks godoc
// @Summary Tasks of a team
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} ports.PaginatedResponse[entities.Task]
// @Security BearerAuth
// @Router /teams/{id}/tasks [get]
func (h *TeamHandler) TeamTasks(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	filter, err := taskFilter(c)
	if err != nil {
		return err
	}

	tasks, total, err := h.teamService.TeamTasks(c.Request().Context(), actor, id, filter)
	if err != nil {
		return err
	}

	return paginated(c, tasks, total, filter.ListParams)
}

// TeamProjects godoc
// @Summary Projects of a team
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} ports.PaginatedResponse[entities.Project]
// @Security BearerAuth
// @Router /teams/{id}/projects [get]
func (h *TeamHandler) TeamProjects(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	filter, err := projectFilter(c)
	if err != nil {
		return err
	}

	projects, total, err := h.teamService.TeamProjects(c.Request().Context(), actor, id, filter)
	if err != nil {
		return err
	}

	return paginated(c, projects, total, filter.ListParams)
}

// Invite godoc
// @Summary Public preview of an active team
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} entities.TeamPreview
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/invite [get]
func (h *TeamHandler) Invite(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	preview, err := h.teamService.Invite(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, preview)
}

// Join godoc
// @Summary Join an active team
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} ports.JoinResult
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/join [post]
func (h *TeamHandler) Join(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.teamService.Join(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// Leave godoc
// @Summary Leave a team
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} ports.MessageResponse
// @Failure 400 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/leave [post]
func (h *TeamHandler) Leave(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.teamService.Leave(c.Request().Context(), actor, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "You have left the team"})
}

// AddMember godoc
// @Summary Add a member (lead only)
// @Tags teams
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param request body ports.AddMemberRequest true "Member"
// @Success 200 {object} entities.Team
// @Security BearerAuth
// @Router /teams/{id}/members [post]
func (h *TeamHandler) AddMember(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ports.AddMemberRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	team, err := h.teamService.AddMember(c.Request().Context(), actor, id, req.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, team)
}

// RemoveMember godoc
// @Summary Remove a member (lead only)
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Param user_id path string true "User ID"
// @Success 200 {object} entities.Team
// @Security BearerAuth
// @Router /teams/{id}/members/{user_id} [delete]
func (h *TeamHandler) RemoveMember(c echo.Context) error {
	actor, err := ActorFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	userID, err := pathUUID(c, "user_id")
	if err != nil {
		return err
	}

	team, err := h.teamService.RemoveMember(c.Request().Context(), actor, id, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, team)
}
