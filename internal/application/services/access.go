package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// Clock returns the current time. Services evaluate it once per operation.
type Clock func() time.Time

// UTCClock is the production clock
func UTCClock() time.Time {
	return time.Now().UTC()
}

// AccessPolicy is the single place team membership is resolved. The team
// lead always counts as a member; superusers may bypass membership for
// mutations but never gain visibility.
type AccessPolicy struct {
	teams  ports.TeamRepository
	logger *logger.Logger
}

// NewAccessPolicy creates a new access policy
func NewAccessPolicy(teams ports.TeamRepository, logger *logger.Logger) *AccessPolicy {
	return &AccessPolicy{
		teams:  teams,
		logger: logger.WithComponent("access_policy"),
	}
}

// IsTeamMember reports whether the user leads or belongs to the team
func (p *AccessPolicy) IsTeamMember(ctx context.Context, teamID int64, userID uuid.UUID) (bool, error) {
	ok, err := p.teams.IsMember(ctx, teamID, userID)
	if err != nil {
		return false, fmt.Errorf("resolve team membership: %w", err)
	}
	return ok, nil
}

// CanSee reports notFound unless the user leads or belongs to the team, so
// resources of foreign teams look absent.
func (p *AccessPolicy) CanSee(ctx context.Context, actor entities.Actor, teamID int64, notFound error) error {
	ok, err := p.IsTeamMember(ctx, teamID, actor.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return notFound
	}
	return nil
}

// RequireMember allows team members and superusers
func (p *AccessPolicy) RequireMember(ctx context.Context, actor entities.Actor, teamID int64) error {
	if actor.IsSuperuser {
		return nil
	}

	ok, err := p.IsTeamMember(ctx, teamID, actor.UserID)
	if err != nil {
		return err
	}
	if !ok {
		p.deny(actor, "not_team_member", teamID)
		return entities.ErrNotTeamMember
	}
	return nil
}

// RequireLead allows the team lead and superusers
func (p *AccessPolicy) RequireLead(actor entities.Actor, team *entities.Team) error {
	if actor.IsSuperuser || team.IsLead(actor.UserID) {
		return nil
	}

	p.deny(actor, "not_team_lead", team.ID)
	return entities.ErrNotTeamLead
}

// RequireResponsibleInTeam checks a prospective assignee. Superuser status of
// the assignee grants nothing here.
func (p *AccessPolicy) RequireResponsibleInTeam(ctx context.Context, teamID int64, responsible uuid.NullUUID) error {
	if !responsible.Valid {
		return nil
	}

	ok, err := p.IsTeamMember(ctx, teamID, responsible.UUID)
	if err != nil {
		return err
	}
	if !ok {
		return entities.ErrResponsibleNotInTeam
	}
	return nil
}

func (p *AccessPolicy) deny(actor entities.Actor, reason string, teamID int64) {
	p.logger.LogSecurityEvent("permission_denied", actor.UserID.String(), "", map[string]interface{}{
		"reason":  reason,
		"team_id": teamID,
	})
	permissionDenials.WithLabelValues(reason).Inc()
}
