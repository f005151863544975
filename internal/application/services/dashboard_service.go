package services

import (
	"context"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// recentTaskLimit is how many of the newest tasks the dashboard shows
const recentTaskLimit = 5

// DashboardService aggregates the data visible to one user
type DashboardService struct {
	statsRepo ports.StatsRepository
	logger    *logger.Logger
	now       Clock
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(statsRepo ports.StatsRepository, logger *logger.Logger) *DashboardService {
	return &DashboardService{
		statsRepo: statsRepo,
		logger:    logger.WithComponent("dashboard_service"),
		now:       UTCClock,
	}
}

// Stats computes the dashboard. Today is fixed once so every count agrees on it.
func (s *DashboardService) Stats(ctx context.Context, actor entities.Actor) (*ports.DashboardStats, error) {
	today := entities.DateOf(s.now())

	tasks, err := s.statsRepo.TaskCounts(ctx, actor.UserID, today)
	if err != nil {
		return nil, err
	}

	projects, err := s.statsRepo.ProjectCounts(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	teams, err := s.statsRepo.ActiveTeamCount(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	byPriority, err := s.statsRepo.TasksByPriority(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.statsRepo.TasksByStatus(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	recent, err := s.statsRepo.RecentTasks(ctx, actor.UserID, recentTaskLimit)
	if err != nil {
		return nil, err
	}

	return &ports.DashboardStats{
		TotalTasks:      tasks.Total,
		CompletedTasks:  tasks.Completed,
		OverdueTasks:    tasks.Overdue,
		InProgressTasks: tasks.InProgress,
		TotalProjects:   projects.Total,
		ActiveProjects:  projects.Active,
		TotalTeams:      teams,
		TasksByPriority: byPriority,
		TasksByStatus:   byStatus,
		RecentTasks:     recent,
	}, nil
}
