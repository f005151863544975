package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/database"
	"github.com/taskflow/core/internal/ports"
)

const projectSelect = `
	SELECT p.id, p.project_title, p.description, p.status, p.deadline, p.started_at,
		p.team_id, tm.name AS team_name, p.created_at, p.updated_at,
		(SELECT COUNT(*) FROM project_tasks pt WHERE pt.project_id = p.id) AS task_count
	FROM projects p
	JOIN teams tm ON tm.id = p.team_id`

var projectOrdering = map[string]string{
	"deadline":   "p.deadline",
	"created_at": "p.created_at",
	"status":     "p.status",
}

// ProjectRepositoryImpl implements the ProjectRepository interface
type ProjectRepositoryImpl struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *database.DB) ports.ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, project *entities.Project) error {
	query := r.db.DB.Rebind(`
		INSERT INTO projects (project_title, description, status, deadline, started_at, team_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := r.db.DB.QueryRowxContext(ctx, query,
		project.ProjectTitle, project.Description, project.Status, project.Deadline, project.StartedAt,
		project.TeamID, project.CreatedAt, project.UpdatedAt,
	).Scan(&project.ID)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

func (r *ProjectRepositoryImpl) GetByID(ctx context.Context, id int64) (*entities.Project, error) {
	query := r.db.DB.Rebind(projectSelect + ` WHERE p.id = ?`)

	var project entities.Project
	if err := r.db.DB.GetContext(ctx, &project, query, id); err != nil {
		if isNoRows(err) {
			return nil, entities.ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &project, nil
}

// Update saves the project. Moving it to another team drops attachments of
// tasks that stay behind.
func (r *ProjectRepositoryImpl) Update(ctx context.Context, project *entities.Project) error {
	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`
			UPDATE projects
			SET project_title = ?, description = ?, status = ?, deadline = ?, started_at = ?, team_id = ?, updated_at = ?
			WHERE id = ?`)

		result, err := tx.ExecContext(ctx, query,
			project.ProjectTitle, project.Description, project.Status, project.Deadline, project.StartedAt,
			project.TeamID, project.UpdatedAt, project.ID,
		)
		if err != nil {
			return fmt.Errorf("update project: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return entities.ErrProjectNotFound
		}

		detach := tx.Rebind(`
			DELETE FROM project_tasks
			WHERE project_id = ? AND task_id IN (SELECT id FROM tasks WHERE team_id <> ?)`)
		if _, err := tx.ExecContext(ctx, detach, project.ID, project.TeamID); err != nil {
			return fmt.Errorf("detach foreign tasks: %w", err)
		}

		return nil
	})
}

func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id int64) error {
	query := r.db.DB.Rebind(`DELETE FROM projects WHERE id = ?`)

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrProjectNotFound
	}

	return nil
}

func (r *ProjectRepositoryImpl) List(ctx context.Context, filter ports.ProjectFilter) ([]*entities.Project, int, error) {
	var where conditions

	if filter.VisibleTo != uuid.Nil {
		where.add("p.team_id IN ("+visibleTeamIDs+")", filter.VisibleTo, filter.VisibleTo)
	}
	if filter.TeamID != nil {
		where.add("p.team_id = ?", *filter.TeamID)
	}
	if filter.Status != nil {
		where.add("p.status = ?", *filter.Status)
	}
	where.search(filter.Search, "p.project_title", "p.description")

	var total int
	countQuery := r.db.DB.Rebind("SELECT COUNT(*) FROM projects p " + where.where())
	if err := r.db.DB.GetContext(ctx, &total, countQuery, where.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	page, args := paginate(filter.ListParams, where.args)
	query := r.db.DB.Rebind(fmt.Sprintf("%s %s %s %s",
		projectSelect, where.where(),
		orderBy(filter.Ordering, projectOrdering, "p.created_at DESC", "p.id DESC"),
		page,
	))

	projects := []*entities.Project{}
	if err := r.db.DB.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, total, nil
}

func (r *ProjectRepositoryImpl) AttachTask(ctx context.Context, projectID, taskID int64) error {
	query := r.db.DB.Rebind(`
		INSERT INTO project_tasks (project_id, task_id)
		VALUES (?, ?)
		ON CONFLICT DO NOTHING`)

	if _, err := r.db.DB.ExecContext(ctx, query, projectID, taskID); err != nil {
		return fmt.Errorf("attach task: %w", err)
	}

	return nil
}

func (r *ProjectRepositoryImpl) DetachTask(ctx context.Context, projectID, taskID int64) (bool, error) {
	query := r.db.DB.Rebind(`DELETE FROM project_tasks WHERE project_id = ? AND task_id = ?`)

	result, err := r.db.DB.ExecContext(ctx, query, projectID, taskID)
	if err != nil {
		return false, fmt.Errorf("detach task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *ProjectRepositoryImpl) ListTasks(ctx context.Context, projectID int64) ([]*entities.Task, error) {
	query := r.db.DB.Rebind(taskSelect + `
		JOIN project_tasks pt ON pt.task_id = t.id
		WHERE pt.project_id = ?
		ORDER BY t.created_at DESC, t.id DESC`)

	tasks := []*entities.Task{}
	if err := r.db.DB.SelectContext(ctx, &tasks, query, projectID); err != nil {
		return nil, fmt.Errorf("list project tasks: %w", err)
	}

	return tasks, nil
}
