package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/database"
	"github.com/taskflow/core/internal/ports"
)

const teamSelect = `
	SELECT tm.id, tm.name, tm.description, tm.team_lead_id, u.username AS team_lead_username,
		tm.is_active, tm.created_at, tm.updated_at,
		(SELECT COUNT(*) FROM team_members m WHERE m.team_id = tm.id) AS member_count
	FROM teams tm
	JOIN users u ON u.id = tm.team_lead_id`

var teamOrdering = map[string]string{
	"name":       "tm.name",
	"created_at": "tm.created_at",
}

// TeamRepositoryImpl implements the TeamRepository interface
type TeamRepositoryImpl struct {
	db *database.DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *database.DB) ports.TeamRepository {
	return &TeamRepositoryImpl{db: db}
}

func (r *TeamRepositoryImpl) Create(ctx context.Context, team *entities.Team) error {
	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`
			INSERT INTO teams (name, description, team_lead_id, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id`)

		err := tx.QueryRowxContext(ctx, query,
			team.Name, team.Description, team.TeamLeadID, team.IsActive, team.CreatedAt, team.UpdatedAt,
		).Scan(&team.ID)
		if err != nil {
			return fmt.Errorf("create team: %w", err)
		}

		if _, err := addMember(ctx, tx, team.ID, team.TeamLeadID, team.CreatedAt); err != nil {
			return err
		}
		team.MemberCount = 1
		return nil
	})
}

func (r *TeamRepositoryImpl) GetByID(ctx context.Context, id int64) (*entities.Team, error) {
	query := r.db.DB.Rebind(teamSelect + ` WHERE tm.id = ?`)

	var team entities.Team
	if err := r.db.DB.GetContext(ctx, &team, query, id); err != nil {
		if isNoRows(err) {
			return nil, entities.ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}

	return &team, nil
}

// Update saves the team and makes sure its lead holds a membership row
func (r *TeamRepositoryImpl) Update(ctx context.Context, team *entities.Team) error {
	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`
			UPDATE teams
			SET name = ?, description = ?, team_lead_id = ?, is_active = ?, updated_at = ?
			WHERE id = ?`)

		result, err := tx.ExecContext(ctx, query,
			team.Name, team.Description, team.TeamLeadID, team.IsActive, team.UpdatedAt, team.ID,
		)
		if err != nil {
			return fmt.Errorf("update team: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return entities.ErrTeamNotFound
		}

		_, err = addMember(ctx, tx, team.ID, team.TeamLeadID, team.UpdatedAt)
		return err
	})
}

func (r *TeamRepositoryImpl) Delete(ctx context.Context, id int64) error {
	query := r.db.DB.Rebind(`DELETE FROM teams WHERE id = ?`)

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTeamNotFound
	}

	return nil
}

func (r *TeamRepositoryImpl) List(ctx context.Context, filter ports.TeamFilter) ([]*entities.Team, int, error) {
	var where conditions

	if filter.VisibleTo != uuid.Nil {
		where.add("tm.id IN ("+visibleTeamIDs+")", filter.VisibleTo, filter.VisibleTo)
	}
	if filter.IsActive != nil {
		where.add("tm.is_active = ?", *filter.IsActive)
	}
	if filter.TeamLeadID != nil {
		where.add("tm.team_lead_id = ?", *filter.TeamLeadID)
	}
	where.search(filter.Search, "tm.name", "tm.description")

	var total int
	countQuery := r.db.DB.Rebind("SELECT COUNT(*) FROM teams tm " + where.where())
	if err := r.db.DB.GetContext(ctx, &total, countQuery, where.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count teams: %w", err)
	}

	page, args := paginate(filter.ListParams, where.args)
	query := r.db.DB.Rebind(fmt.Sprintf("%s %s %s %s",
		teamSelect, where.where(),
		orderBy(filter.Ordering, teamOrdering, "tm.name ASC", "tm.id ASC"),
		page,
	))

	teams := []*entities.Team{}
	if err := r.db.DB.SelectContext(ctx, &teams, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list teams: %w", err)
	}

	return teams, total, nil
}

// IsMember treats the lead as a member even without a membership row
func (r *TeamRepositoryImpl) IsMember(ctx context.Context, teamID int64, userID uuid.UUID) (bool, error) {
	query := r.db.DB.Rebind(`
		SELECT COUNT(*) FROM (
			SELECT id FROM teams WHERE id = ? AND team_lead_id = ?
			UNION ALL
			SELECT team_id FROM team_members WHERE team_id = ? AND user_id = ?
		) membership`)

	var n int
	if err := r.db.DB.GetContext(ctx, &n, query, teamID, userID, teamID, userID); err != nil {
		return false, fmt.Errorf("check team membership: %w", err)
	}

	return n > 0, nil
}

func (r *TeamRepositoryImpl) AddMember(ctx context.Context, teamID int64, userID uuid.UUID) (bool, error) {
	return addMember(ctx, r.db.DB, teamID, userID, nowUTC())
}

func (r *TeamRepositoryImpl) RemoveMember(ctx context.Context, teamID int64, userID uuid.UUID) (bool, error) {
	query := r.db.DB.Rebind(`DELETE FROM team_members WHERE team_id = ? AND user_id = ?`)

	result, err := r.db.DB.ExecContext(ctx, query, teamID, userID)
	if err != nil {
		return false, fmt.Errorf("remove team member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *TeamRepositoryImpl) ListMembers(ctx context.Context, teamID int64) ([]entities.UserSummary, error) {
	query := r.db.DB.Rebind(`
		SELECT u.id, u.username, u.email
		FROM team_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.team_id = ?
		ORDER BY u.username`)

	members := []entities.UserSummary{}
	if err := r.db.DB.SelectContext(ctx, &members, query, teamID); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}

	return members, nil
}

// addMember inserts a membership row unless one exists and reports whether it did
func addMember(ctx context.Context, q queryer, teamID int64, userID uuid.UUID, joinedAt time.Time) (bool, error) {
	query := q.Rebind(`
		INSERT INTO team_members (team_id, user_id, joined_at)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING`)

	result, err := q.ExecContext(ctx, query, teamID, userID, joinedAt)
	if err != nil {
		return false, fmt.Errorf("add team member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
