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

// taskSelect derives is_completed from status so the two can never disagree
const taskSelect = `
	SELECT t.id, t.title, t.description, t.status, t.priority, t.due_date,
		(t.status = 'done') AS is_completed, t.completed_at,
		t.team_id, tm.name AS team_name,
		t.responsible_id, ru.username AS responsible_username,
		t.category_id, c.name AS category_name,
		t.created_at, t.updated_at
	FROM tasks t
	JOIN teams tm ON tm.id = t.team_id
	LEFT JOIN users ru ON ru.id = t.responsible_id
	LEFT JOIN categories c ON c.id = t.category_id`

var taskOrdering = map[string]string{
	"due_date":   "t.due_date",
	"priority":   priorityRank("t.priority"),
	"created_at": "t.created_at",
	"status":     "t.status",
}

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	query := r.db.DB.Rebind(`
		INSERT INTO tasks (title, description, status, priority, due_date, completed_at,
			team_id, responsible_id, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := r.db.DB.QueryRowxContext(ctx, query,
		task.Title, task.Description, task.Status, task.Priority, task.DueDate, task.CompletedAt,
		task.TeamID, task.ResponsibleID, task.CategoryID, task.CreatedAt, task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id int64) (*entities.Task, error) {
	query := r.db.DB.Rebind(taskSelect + ` WHERE t.id = ?`)

	var task entities.Task
	if err := r.db.DB.GetContext(ctx, &task, query, id); err != nil {
		if isNoRows(err) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	return &task, nil
}

// Update saves the task. A task that moved to another team is detached from
// projects of its previous team.
func (r *TaskRepositoryImpl) Update(ctx context.Context, task *entities.Task) error {
	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`
			UPDATE tasks
			SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, completed_at = ?,
				team_id = ?, responsible_id = ?, category_id = ?, updated_at = ?
			WHERE id = ?`)

		result, err := tx.ExecContext(ctx, query,
			task.Title, task.Description, task.Status, task.Priority, task.DueDate, task.CompletedAt,
			task.TeamID, task.ResponsibleID, task.CategoryID, task.UpdatedAt, task.ID,
		)
		if err != nil {
			return fmt.Errorf("update task: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return entities.ErrTaskNotFound
		}

		detach := tx.Rebind(`
			DELETE FROM project_tasks
			WHERE task_id = ? AND project_id IN (SELECT id FROM projects WHERE team_id <> ?)`)
		if _, err := tx.ExecContext(ctx, detach, task.ID, task.TeamID); err != nil {
			return fmt.Errorf("detach task from foreign projects: %w", err)
		}

		return nil
	})
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id int64) error {
	query := r.db.DB.Rebind(`DELETE FROM tasks WHERE id = ?`)

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepositoryImpl) List(ctx context.Context, filter ports.TaskFilter) ([]*entities.Task, int, error) {
	where := taskConditions(filter)

	var total int
	countQuery := r.db.DB.Rebind("SELECT COUNT(*) FROM tasks t " + where.where())
	if err := r.db.DB.GetContext(ctx, &total, countQuery, where.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	page, args := paginate(filter.ListParams, where.args)
	query := r.db.DB.Rebind(fmt.Sprintf("%s %s %s %s",
		taskSelect, where.where(),
		orderBy(filter.Ordering, taskOrdering, "t.created_at DESC", "t.id DESC"),
		page,
	))

	tasks := []*entities.Task{}
	if err := r.db.DB.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// taskConditions only references columns of tasks t so the count query can skip the joins
func taskConditions(filter ports.TaskFilter) conditions {
	var where conditions

	if filter.VisibleTo != uuid.Nil {
		where.add("t.team_id IN ("+visibleTeamIDs+")", filter.VisibleTo, filter.VisibleTo)
	}
	if filter.TeamID != nil {
		where.add("t.team_id = ?", *filter.TeamID)
	}
	if filter.Status != nil {
		where.add("t.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		where.add("t.priority = ?", *filter.Priority)
	}
	if filter.IsCompleted != nil {
		if *filter.IsCompleted {
			where.add("t.status = 'done'")
		} else {
			where.add("t.status <> 'done'")
		}
	}
	if filter.ResponsibleID != nil {
		where.add("t.responsible_id = ?", *filter.ResponsibleID)
	}
	if filter.CategoryID != nil {
		where.add("t.category_id = ?", *filter.CategoryID)
	}
	if filter.DueBefore != nil {
		where.add("t.due_date < ?", *filter.DueBefore)
	}
	if filter.DueOn != nil {
		where.add("t.due_date = ?", *filter.DueOn)
	}
	where.search(filter.Search, "t.title", "t.description")

	return where
}
