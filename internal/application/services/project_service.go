package services

import (
	"context"
	"errors"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// ProjectService handles project-related operations
type ProjectService struct {
	projectRepo ports.ProjectRepository
	taskRepo    ports.TaskRepository
	teamRepo    ports.TeamRepository
	access      *AccessPolicy
	logger      *logger.Logger
	now         Clock
}

// NewProjectService creates a new project service
func NewProjectService(projectRepo ports.ProjectRepository, taskRepo ports.TaskRepository, teamRepo ports.TeamRepository,
	access *AccessPolicy, logger *logger.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		teamRepo:    teamRepo,
		access:      access,
		logger:      logger.WithComponent("project_service"),
		now:         UTCClock,
	}
}

// CreateProject creates a project under a team the actor belongs to
func (s *ProjectService) CreateProject(ctx context.Context, actor entities.Actor, req ports.CreateProjectRequest) (*entities.Project, error) {
	if req.TeamID == nil {
		return nil, entities.ErrTeamRequired
	}

	title, err := requiredText("project_title", req.ProjectTitle)
	if err != nil {
		return nil, err
	}
	if err := validDate(req.Deadline); err != nil {
		return nil, err
	}

	now := s.now()
	project := &entities.Project{
		ProjectTitle: title,
		Description:  req.Description,
		Status:       entities.ProjectStatusPlanned,
		Deadline:     req.Deadline,
		TeamID:       *req.TeamID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Status != nil {
		if err := project.ApplyStatus(*req.Status, now); err != nil {
			return nil, err
		}
	}

	if err := s.validateTeam(ctx, actor, project.TeamID); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Infow("Project created", "project_id", project.ID, "team_id", project.TeamID, "user_id", actor.UserID)
	return s.detail(ctx, project.ID)
}

// ListProjects returns projects of teams the actor leads or belongs to
func (s *ProjectService) ListProjects(ctx context.Context, actor entities.Actor, filter ports.ProjectFilter) ([]*entities.Project, int, error) {
	filter.VisibleTo = actor.UserID
	return s.projectRepo.List(ctx, filter)
}

// GetProject returns a visible project with its tasks
func (s *ProjectService) GetProject(ctx context.Context, actor entities.Actor, id int64) (*entities.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.access.CanSee(ctx, actor, project.TeamID, entities.ErrProjectNotFound); err != nil {
		return nil, err
	}

	return s.withTasks(ctx, project)
}

// UpdateProject applies a partial update
func (s *ProjectService) UpdateProject(ctx context.Context, actor entities.Actor, id int64, req ports.UpdateProjectRequest) (*entities.Project, error) {
	project, err := s.modifiable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if req.ProjectTitle != nil {
		if project.ProjectTitle, err = requiredText("project_title", *req.ProjectTitle); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Deadline != nil {
		if err := validDate(req.Deadline); err != nil {
			return nil, err
		}
		project.Deadline = req.Deadline
	}
	if req.Status != nil {
		if err := project.ApplyStatus(*req.Status, now); err != nil {
			return nil, err
		}
	}
	if req.TeamID != nil && *req.TeamID != project.TeamID {
		if err := s.validateTeam(ctx, actor, *req.TeamID); err != nil {
			return nil, err
		}
		project.TeamID = *req.TeamID
	}

	project.UpdatedAt = now
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Infow("Project updated", "project_id", project.ID, "user_id", actor.UserID)
	return s.detail(ctx, project.ID)
}

// DeleteProject removes a project; its tasks stay with the team
func (s *ProjectService) DeleteProject(ctx context.Context, actor entities.Actor, id int64) error {
	if _, err := s.modifiable(ctx, actor, id); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Project deleted", "project_id", id, "user_id", actor.UserID)
	return nil
}

// StartProject activates a planned or paused project. Starting an active
// project changes nothing.
func (s *ProjectService) StartProject(ctx context.Context, actor entities.Actor, id int64) (*entities.Project, error) {
	project, err := s.modifiable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if project.IsActive() {
		return s.withTasks(ctx, project)
	}

	now := s.now()
	if err := project.Start(now); err != nil {
		return nil, err
	}
	project.UpdatedAt = now

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.LogUserAction(actor.UserID.String(), "project.start", map[string]interface{}{"project_id": project.ID})
	projectStarts.Inc()

	return s.detail(ctx, project.ID)
}

// AddTask attaches a task of the project's own team. Tasks of other teams
// are reported as missing.
func (s *ProjectService) AddTask(ctx context.Context, actor entities.Actor, id, taskID int64) (*entities.Project, error) {
	project, err := s.modifiable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.TeamID != project.TeamID {
		return nil, entities.ErrTaskNotFound
	}

	if err := s.projectRepo.AttachTask(ctx, project.ID, task.ID); err != nil {
		return nil, err
	}

	s.logger.LogUserAction(actor.UserID.String(), "project.add_task", map[string]interface{}{
		"project_id": project.ID,
		"task_id":    task.ID,
	})
	return s.detail(ctx, project.ID)
}

// RemoveTask detaches a task from the project
func (s *ProjectService) RemoveTask(ctx context.Context, actor entities.Actor, id, taskID int64) (*entities.Project, error) {
	project, err := s.modifiable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	removed, err := s.projectRepo.DetachTask(ctx, project.ID, taskID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, entities.ErrTaskNotAttached
	}

	s.logger.LogUserAction(actor.UserID.String(), "project.remove_task", map[string]interface{}{
		"project_id": project.ID,
		"task_id":    taskID,
	})
	return s.detail(ctx, project.ID)
}

func (s *ProjectService) modifiable(ctx context.Context, actor entities.Actor, id int64) (*entities.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.access.RequireMember(ctx, actor, project.TeamID); err != nil {
		return nil, err
	}

	return project, nil
}

func (s *ProjectService) validateTeam(ctx context.Context, actor entities.Actor, teamID int64) error {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return entities.Validation("team %d does not exist", teamID)
		}
		return err
	}

	return s.access.RequireMember(ctx, actor, teamID)
}

func (s *ProjectService) detail(ctx context.Context, id int64) (*entities.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withTasks(ctx, project)
}

func (s *ProjectService) withTasks(ctx context.Context, project *entities.Project) (*entities.Project, error) {
	tasks, err := s.projectRepo.ListTasks(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	project.Tasks = tasks
	return project, nil
}
