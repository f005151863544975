package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// TeamService handles teams and their membership
type TeamService struct {
	teamRepo    ports.TeamRepository
	taskRepo    ports.TaskRepository
	projectRepo ports.ProjectRepository
	userRepo    ports.UserRepository
	access      *AccessPolicy
	logger      *logger.Logger
	now         Clock
}

// NewTeamService creates a new team service
func NewTeamService(teamRepo ports.TeamRepository, taskRepo ports.TaskRepository, projectRepo ports.ProjectRepository,
	userRepo ports.UserRepository, access *AccessPolicy, logger *logger.Logger) *TeamService {
	return &TeamService{
		teamRepo:    teamRepo,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		access:      access,
		logger:      logger.WithComponent("team_service"),
		now:         UTCClock,
	}
}

// CreateTeam makes the actor the lead and first member of a new team
func (s *TeamService) CreateTeam(ctx context.Context, actor entities.Actor, req ports.CreateTeamRequest) (*entities.Team, error) {
	name, err := requiredText("name", req.Name)
	if err != nil {
		return nil, err
	}

	now := s.now()
	team := &entities.Team{
		Name:        name,
		Description: req.Description,
		TeamLeadID:  actor.UserID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}

	s.logger.Infow("Team created", "team_id", team.ID, "team_lead_id", actor.UserID)
	return s.detail(ctx, team.ID)
}

// ListTeams returns the teams the actor leads or belongs to
func (s *TeamService) ListTeams(ctx context.Context, actor entities.Actor, filter ports.TeamFilter) ([]*entities.Team, int, error) {
	filter.VisibleTo = actor.UserID
	return s.teamRepo.List(ctx, filter)
}

// GetTeam returns a visible team with its members
func (s *TeamService) GetTeam(ctx context.Context, actor entities.Actor, id int64) (*entities.Team, error) {
	if err := s.visible(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.detail(ctx, id)
}

// UpdateTeam is reserved to the lead and superusers. A new lead must be an
// existing user and becomes a member.
func (s *TeamService) UpdateTeam(ctx context.Context, actor entities.Actor, id int64, req ports.UpdateTeamRequest) (*entities.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.access.RequireLead(actor, team); err != nil {
		return nil, err
	}

	if req.Name != nil {
		if team.Name, err = requiredText("name", *req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		team.Description = *req.Description
	}
	if req.IsActive != nil {
		team.IsActive = *req.IsActive
	}
	if req.TeamLeadID != nil && *req.TeamLeadID != team.TeamLeadID {
		if _, err := s.userRepo.GetByID(ctx, *req.TeamLeadID); err != nil {
			if errors.Is(err, entities.ErrNotFound) {
				return nil, entities.Validation("team lead %s does not exist", *req.TeamLeadID)
			}
			return nil, err
		}
		team.TeamLeadID = *req.TeamLeadID
	}
	team.UpdatedAt = s.now()

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}

	s.logger.Infow("Team updated", "team_id", team.ID, "user_id", actor.UserID)
	return s.detail(ctx, team.ID)
}

// DeleteTeam removes the team with its tasks and projects
func (s *TeamService) DeleteTeam(ctx context.Context, actor entities.Actor, id int64) error {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.access.RequireLead(actor, team); err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Team deleted", "team_id", id, "user_id", actor.UserID)
	return nil
}

// TeamTasks lists the tasks of a visible team
func (s *TeamService) TeamTasks(ctx context.Context, actor entities.Actor, id int64, filter ports.TaskFilter) ([]*entities.Task, int, error) {
	if err := s.visible(ctx, actor, id); err != nil {
		return nil, 0, err
	}

	filter.VisibleTo = actor.UserID
	filter.TeamID = &id
	return s.taskRepo.List(ctx, filter)
}

// TeamProjects lists the projects of a visible team
func (s *TeamService) TeamProjects(ctx context.Context, actor entities.Actor, id int64, filter ports.ProjectFilter) ([]*entities.Project, int, error) {
	if err := s.visible(ctx, actor, id); err != nil {
		return nil, 0, err
	}

	filter.VisibleTo = actor.UserID
	filter.TeamID = &id
	return s.projectRepo.List(ctx, filter)
}

// Invite previews an active team for anyone holding its id
func (s *TeamService) Invite(ctx context.Context, actor entities.Actor, id int64) (*entities.TeamPreview, error) {
	team, err := s.activeTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	isMember, err := s.access.IsTeamMember(ctx, team.ID, actor.UserID)
	if err != nil {
		return nil, err
	}

	return &entities.TeamPreview{
		ID:               team.ID,
		Name:             team.Name,
		Description:      team.Description,
		TeamLeadID:       team.TeamLeadID,
		TeamLeadUsername: team.TeamLeadUsername,
		MemberCount:      team.MemberCount,
		IsMember:         isMember,
	}, nil
}

// Join adds the actor to an active team. Joining a team one already belongs
// to succeeds without changes.
func (s *TeamService) Join(ctx context.Context, actor entities.Actor, id int64) (*ports.JoinResult, error) {
	team, err := s.activeTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	isMember, err := s.access.IsTeamMember(ctx, team.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if isMember {
		return &ports.JoinResult{Detail: "You are already a member of this team", TeamID: team.ID}, nil
	}

	added, err := s.teamRepo.AddMember(ctx, team.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !added {
		// a concurrent join won the race
		return &ports.JoinResult{Detail: "You are already a member of this team", TeamID: team.ID}, nil
	}

	s.logger.LogUserAction(actor.UserID.String(), "team.join", map[string]interface{}{"team_id": team.ID})
	teamMembershipChanges.WithLabelValues("join").Inc()

	return &ports.JoinResult{Detail: "Successfully joined the team", Joined: true, TeamID: team.ID}, nil
}

// AddMember lets the lead enroll an existing user
func (s *TeamService) AddMember(ctx context.Context, actor entities.Actor, id int64, userID uuid.UUID) (*entities.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.access.RequireLead(actor, team); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	added, err := s.teamRepo.AddMember(ctx, team.ID, userID)
	if err != nil {
		return nil, err
	}
	if added {
		s.logger.LogUserAction(actor.UserID.String(), "team.add_member", map[string]interface{}{
			"team_id":   team.ID,
			"member_id": userID.String(),
		})
		teamMembershipChanges.WithLabelValues("add").Inc()
	}

	return s.detail(ctx, team.ID)
}

// RemoveMember lets the lead remove anyone but themselves
func (s *TeamService) RemoveMember(ctx context.Context, actor entities.Actor, id int64, userID uuid.UUID) (*entities.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.access.RequireLead(actor, team); err != nil {
		return nil, err
	}

	if team.IsLead(userID) {
		return nil, entities.ErrLeadCannotLeave
	}

	removed, err := s.teamRepo.RemoveMember(ctx, team.ID, userID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, entities.NotFound("user %s is not a member of this team", userID)
	}

	s.logger.LogUserAction(actor.UserID.String(), "team.remove_member", map[string]interface{}{
		"team_id":   team.ID,
		"member_id": userID.String(),
	})
	teamMembershipChanges.WithLabelValues("remove").Inc()

	return s.detail(ctx, team.ID)
}

// Leave removes the actor from a team they belong to. The lead has to hand
// over the team first.
func (s *TeamService) Leave(ctx context.Context, actor entities.Actor, id int64) error {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if team.IsLead(actor.UserID) {
		return entities.ErrLeadCannotLeave
	}

	removed, err := s.teamRepo.RemoveMember(ctx, team.ID, actor.UserID)
	if err != nil {
		return err
	}
	if !removed {
		return entities.ErrTeamNotFound
	}

	s.logger.LogUserAction(actor.UserID.String(), "team.leave", map[string]interface{}{"team_id": team.ID})
	teamMembershipChanges.WithLabelValues("leave").Inc()
	return nil
}

func (s *TeamService) visible(ctx context.Context, actor entities.Actor, id int64) error {
	return s.access.CanSee(ctx, actor, id, entities.ErrTeamNotFound)
}

func (s *TeamService) activeTeam(ctx context.Context, id int64) (*entities.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !team.IsActive {
		return nil, entities.ErrTeamNotFound
	}
	return team, nil
}

func (s *TeamService) detail(ctx context.Context, id int64) (*entities.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	members, err := s.teamRepo.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	team.Members = members

	return team, nil
}
