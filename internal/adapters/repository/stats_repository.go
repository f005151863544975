package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/database"
	"github.com/taskflow/core/internal/ports"
)

// StatsRepositoryImpl implements the StatsRepository interface. Every query
// is scoped to the teams the user leads or belongs to.
type StatsRepositoryImpl struct {
	db *database.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *database.DB) ports.StatsRepository {
	return &StatsRepositoryImpl{db: db}
}

func (r *StatsRepositoryImpl) TaskCounts(ctx context.Context, userID uuid.UUID, today entities.Date) (ports.TaskCounts, error) {
	query := r.db.DB.Rebind(`
		SELECT COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN t.status = 'done' THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN t.status <> 'done' AND t.due_date < ? THEN 1 ELSE 0 END), 0) AS overdue,
			COALESCE(SUM(CASE WHEN t.status = 'progress' THEN 1 ELSE 0 END), 0) AS in_progress
		FROM tasks t
		WHERE t.team_id IN (` + visibleTeamIDs + `)`)

	var counts ports.TaskCounts
	if err := r.db.DB.GetContext(ctx, &counts, query, today, userID, userID); err != nil {
		return counts, fmt.Errorf("count tasks: %w", err)
	}

	return counts, nil
}

func (r *StatsRepositoryImpl) ProjectCounts(ctx context.Context, userID uuid.UUID) (ports.ProjectCounts, error) {
	query := r.db.DB.Rebind(`
		SELECT COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN p.status = 'active' THEN 1 ELSE 0 END), 0) AS active
		FROM projects p
		WHERE p.team_id IN (` + visibleTeamIDs + `)`)

	var counts ports.ProjectCounts
	if err := r.db.DB.GetContext(ctx, &counts, query, userID, userID); err != nil {
		return counts, fmt.Errorf("count projects: %w", err)
	}

	return counts, nil
}

func (r *StatsRepositoryImpl) ActiveTeamCount(ctx context.Context, userID uuid.UUID) (int, error) {
	query := r.db.DB.Rebind(`
		SELECT COUNT(*) FROM teams tm
		WHERE tm.is_active = ? AND tm.id IN (` + visibleTeamIDs + `)`)

	var n int
	if err := r.db.DB.GetContext(ctx, &n, query, true, userID, userID); err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}

	return n, nil
}

func (r *StatsRepositoryImpl) TasksByPriority(ctx context.Context, userID uuid.UUID) (map[string]int, error) {
	return r.groupTasks(ctx, "t.priority", userID)
}

func (r *StatsRepositoryImpl) TasksByStatus(ctx context.Context, userID uuid.UUID) (map[string]int, error) {
	return r.groupTasks(ctx, "t.status", userID)
}

// groupTasks counts visible tasks per value of column. Values with no tasks are absent.
func (r *StatsRepositoryImpl) groupTasks(ctx context.Context, column string, userID uuid.UUID) (map[string]int, error) {
	query := r.db.DB.Rebind(fmt.Sprintf(`
		SELECT %[1]s AS grp, COUNT(*) AS n
		FROM tasks t
		WHERE t.team_id IN (%[2]s)
		GROUP BY %[1]s`, column, visibleTeamIDs))

	var rows []struct {
		Group string `db:"grp"`
		Count int    `db:"n"`
	}
	if err := r.db.DB.SelectContext(ctx, &rows, query, userID, userID); err != nil {
		return nil, fmt.Errorf("group tasks by %s: %w", column, err)
	}

	grouped := make(map[string]int, len(rows))
	for _, row := range rows {
		grouped[row.Group] = row.Count
	}

	return grouped, nil
}

func (r *StatsRepositoryImpl) RecentTasks(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Task, error) {
	query := r.db.DB.Rebind(taskSelect + `
		WHERE t.team_id IN (` + visibleTeamIDs + `)
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT ?`)

	tasks := []*entities.Task{}
	if err := r.db.DB.SelectContext(ctx, &tasks, query, userID, userID, limit); err != nil {
		return nil, fmt.Errorf("recent tasks: %w", err)
	}

	return tasks, nil
}
