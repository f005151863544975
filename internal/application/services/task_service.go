package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// TaskService handles task-related operations
type TaskService struct {
	taskRepo     ports.TaskRepository
	teamRepo     ports.TeamRepository
	categoryRepo ports.CategoryRepository
	access       *AccessPolicy
	logger       *logger.Logger
	now          Clock
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, teamRepo ports.TeamRepository, categoryRepo ports.CategoryRepository,
	access *AccessPolicy, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		teamRepo:     teamRepo,
		categoryRepo: categoryRepo,
		access:       access,
		logger:       logger.WithComponent("task_service"),
		now:          UTCClock,
	}
}

// CreateTask creates a task under a team the actor belongs to
func (s *TaskService) CreateTask(ctx context.Context, actor entities.Actor, req ports.CreateTaskRequest) (*entities.Task, error) {
	if req.TeamID == nil {
		return nil, entities.ErrTeamRequired
	}

	title, err := requiredText("title", req.Title)
	if err != nil {
		return nil, err
	}
	if err := validDate(req.DueDate); err != nil {
		return nil, err
	}

	now := s.now()
	task := &entities.Task{
		Title:       title,
		Description: req.Description,
		Status:      entities.TaskStatusTodo,
		Priority:    entities.PriorityMedium,
		DueDate:     req.DueDate,
		TeamID:      *req.TeamID,
		CategoryID:  req.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.ResponsibleID != nil {
		task.ResponsibleID = uuid.NullUUID{UUID: *req.ResponsibleID, Valid: true}
	}
	if req.Priority != nil {
		if !req.Priority.IsValid() {
			return nil, entities.ErrInvalidPriority
		}
		task.Priority = *req.Priority
	}
	if req.Status != nil {
		if err := task.ApplyStatus(*req.Status, now); err != nil {
			return nil, err
		}
	}

	if err := s.validateRelations(ctx, actor, task); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Infow("Task created", "task_id", task.ID, "team_id", task.TeamID, "user_id", actor.UserID)
	return s.taskRepo.GetByID(ctx, task.ID)
}

// ListTasks returns tasks of teams the actor leads or belongs to
func (s *TaskService) ListTasks(ctx context.Context, actor entities.Actor, filter ports.TaskFilter) ([]*entities.Task, int, error) {
	filter.VisibleTo = actor.UserID
	return s.taskRepo.List(ctx, filter)
}

// GetTask returns a visible task
func (s *TaskService) GetTask(ctx context.Context, actor entities.Actor, id int64) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.access.CanSee(ctx, actor, task.TeamID, entities.ErrTaskNotFound); err != nil {
		return nil, err
	}

	return task, nil
}

// UpdateTask applies a partial update. Team and responsible rules are checked
// against the resulting task, with unchanged fields taken from the current one.
func (s *TaskService) UpdateTask(ctx context.Context, actor entities.Actor, id int64, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, err := s.modifiable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if req.Title != nil {
		if task.Title, err = requiredText("title", *req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		if !req.Priority.IsValid() {
			return nil, entities.ErrInvalidPriority
		}
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		if err := validDate(req.DueDate); err != nil {
			return nil, err
		}
		task.DueDate = req.DueDate
	}
	if req.TeamID != nil {
		task.TeamID = *req.TeamID
	}
	if req.ResponsibleID != nil {
		task.ResponsibleID = uuid.NullUUID{UUID: *req.ResponsibleID, Valid: true}
	}
	if req.CategoryID != nil {
		task.CategoryID = req.CategoryID
	}
	if req.Status != nil && *req.Status != task.Status {
		if err := task.ApplyStatus(*req.Status, now); err != nil {
			return nil, err
		}
	}

	if err := s.validateRelations(ctx, actor, task); err != nil {
		return nil, err
	}

	task.UpdatedAt = now
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Infow("Task updated", "task_id", task.ID, "user_id", actor.UserID)
	return s.taskRepo.GetByID(ctx, task.ID)
}

// DeleteTask removes a task
func (s *TaskService) DeleteTask(ctx context.Context, actor entities.Actor, id int64) error {
	task, err := s.modifiable(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		return err
	}

	s.logger.Infow("Task deleted", "task_id", id, "user_id", actor.UserID)
	return nil
}

// CompleteTask marks the task done. A task that is already done keeps its
// completion time.
func (s *TaskService) CompleteTask(ctx context.Context, actor entities.Actor, id int64) (*entities.Task, error) {
	return s.transition(ctx, actor, id, "complete", func(task *entities.Task, now time.Time) {
		task.Complete(now)
	})
}

// ReopenTask puts the task back to todo whatever its status was
func (s *TaskService) ReopenTask(ctx context.Context, actor entities.Actor, id int64) (*entities.Task, error) {
	return s.transition(ctx, actor, id, "reopen", func(task *entities.Task, _ time.Time) {
		task.Reopen()
	})
}

// OverdueTasks lists visible open tasks due before today
func (s *TaskService) OverdueTasks(ctx context.Context, actor entities.Actor, params ports.ListParams) ([]*entities.Task, int, error) {
	today := entities.DateOf(s.now())
	open := false
	return s.taskRepo.List(ctx, ports.TaskFilter{
		ListParams:  params,
		VisibleTo:   actor.UserID,
		DueBefore:   &today,
		IsCompleted: &open,
	})
}

// TodayTasks lists visible tasks due today, completed or not
func (s *TaskService) TodayTasks(ctx context.Context, actor entities.Actor, params ports.ListParams) ([]*entities.Task, int, error) {
	today := entities.DateOf(s.now())
	return s.taskRepo.List(ctx, ports.TaskFilter{
		ListParams: params,
		VisibleTo:  actor.UserID,
		DueOn:      &today,
	})
}

func (s *TaskService) transition(ctx context.Context, actor entities.Actor, id int64, name string,
	apply func(*entities.Task, time.Time)) (*entities.Task, error) {
	task, err := s.modifiable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	apply(task, now)
	task.UpdatedAt = now

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.logger.LogUserAction(actor.UserID.String(), "task."+name, map[string]interface{}{"task_id": task.ID})
	taskTransitions.WithLabelValues(name).Inc()

	return s.taskRepo.GetByID(ctx, task.ID)
}

// modifiable loads a task the actor may change: a member of its current team
// or a superuser
func (s *TaskService) modifiable(ctx context.Context, actor entities.Actor, id int64) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.access.RequireMember(ctx, actor, task.TeamID); err != nil {
		return nil, err
	}

	return task, nil
}

// validateRelations enforces the team, responsible and category rules on the
// task as it is about to be saved
func (s *TaskService) validateRelations(ctx context.Context, actor entities.Actor, task *entities.Task) error {
	if _, err := s.teamRepo.GetByID(ctx, task.TeamID); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return entities.Validation("team %d does not exist", task.TeamID)
		}
		return err
	}

	if err := s.access.RequireMember(ctx, actor, task.TeamID); err != nil {
		return err
	}

	if err := s.access.RequireResponsibleInTeam(ctx, task.TeamID, task.ResponsibleID); err != nil {
		return err
	}

	if task.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *task.CategoryID); err != nil {
			if errors.Is(err, entities.ErrNotFound) {
				return entities.Validation("category %d does not exist", *task.CategoryID)
			}
			return err
		}
	}

	return nil
}
