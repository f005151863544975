package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/core/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
}

// TeamRepository defines the interface for team data and membership operations
type TeamRepository interface {
	// Create stores the team and enrolls its lead as a member in one transaction
	Create(ctx context.Context, team *entities.Team) error
	GetByID(ctx context.Context, id int64) (*entities.Team, error)
	Update(ctx context.Context, team *entities.Team) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter TeamFilter) ([]*entities.Team, int, error)
	// IsMember reports whether the user is the team's lead or one of its members
	IsMember(ctx context.Context, teamID int64, userID uuid.UUID) (bool, error)
	// AddMember is idempotent and reports whether a row was inserted
	AddMember(ctx context.Context, teamID int64, userID uuid.UUID) (bool, error)
	RemoveMember(ctx context.Context, teamID int64, userID uuid.UUID) (bool, error)
	ListMembers(ctx context.Context, teamID int64) ([]entities.UserSummary, error)
}

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id int64) (*entities.Task, error)
	Update(ctx context.Context, task *entities.Task) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter TaskFilter) ([]*entities.Task, int, error)
}

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *entities.Project) error
	GetByID(ctx context.Context, id int64) (*entities.Project, error)
	Update(ctx context.Context, project *entities.Project) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ProjectFilter) ([]*entities.Project, int, error)
	// AttachTask is idempotent
	AttachTask(ctx context.Context, projectID, taskID int64) error
	DetachTask(ctx context.Context, projectID, taskID int64) (bool, error)
	ListTasks(ctx context.Context, projectID int64) ([]*entities.Task, error)
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entities.Category) error
	GetByID(ctx context.Context, id int64) (*entities.Category, error)
	GetByName(ctx context.Context, name string) (*entities.Category, error)
	Update(ctx context.Context, category *entities.Category) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter CategoryFilter) ([]*entities.Category, int, error)
}

// CalendarEventRepository defines the interface for calendar event data operations.
// Every read is bound to an owner.
type CalendarEventRepository interface {
	Create(ctx context.Context, event *entities.CalendarEvent) error
	GetByID(ctx context.Context, id int64, ownerID uuid.UUID) (*entities.CalendarEvent, error)
	Update(ctx context.Context, event *entities.CalendarEvent) error
	Delete(ctx context.Context, id int64, ownerID uuid.UUID) error
	List(ctx context.Context, filter CalendarEventFilter) ([]*entities.CalendarEvent, int, error)
}

// StatsRepository computes aggregates over the data visible to one user
type StatsRepository interface {
	TaskCounts(ctx context.Context, userID uuid.UUID, today entities.Date) (TaskCounts, error)
	ProjectCounts(ctx context.Context, userID uuid.UUID) (ProjectCounts, error)
	ActiveTeamCount(ctx context.Context, userID uuid.UUID) (int, error)
	TasksByPriority(ctx context.Context, userID uuid.UUID) (map[string]int, error)
	TasksByStatus(ctx context.Context, userID uuid.UUID) (map[string]int, error)
	RecentTasks(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Task, error)
}

// AuthRepository defines the interface for refresh token storage
type AuthRepository interface {
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// Paging bounds for list queries
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// ListParams carries the search, ordering and paging shared by every list query.
// Ordering names one field; a leading "-" sorts descending.
type ListParams struct {
	Search   string
	Ordering string
	Limit    int
	Offset   int
}

// Page returns the limit and offset clamped to the supported bounds
func (p ListParams) Page() (limit, offset int) {
	limit, offset = p.Limit, p.Offset
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Filter types for repository queries

// TeamFilter lists the teams VisibleTo may see
type TeamFilter struct {
	ListParams
	VisibleTo  uuid.UUID
	IsActive   *bool
	TeamLeadID *uuid.UUID
}

// TaskFilter lists tasks of teams VisibleTo may see
type TaskFilter struct {
	ListParams
	VisibleTo     uuid.UUID
	TeamID        *int64
	Status        *entities.TaskStatus
	Priority      *entities.Priority
	IsCompleted   *bool
	ResponsibleID *uuid.UUID
	CategoryID    *int64
	DueBefore     *entities.Date
	DueOn         *entities.Date
}

// ProjectFilter lists projects of teams VisibleTo may see
type ProjectFilter struct {
	ListParams
	VisibleTo uuid.UUID
	TeamID    *int64
	Status    *entities.ProjectStatus
}

type CategoryFilter struct {
	ListParams
}

type CalendarEventFilter struct {
	ListParams
	OwnerID    uuid.UUID
	CalendarID *string
}

// TaskCounts holds the scalar task aggregates of the dashboard
type TaskCounts struct {
	Total      int `db:"total"`
	Completed  int `db:"completed"`
	Overdue    int `db:"overdue"`
	InProgress int `db:"in_progress"`
}

// ProjectCounts holds the scalar project aggregates of the dashboard
type ProjectCounts struct {
	Total  int `db:"total"`
	Active int `db:"active"`
}

// RefreshToken represents a refresh token record
type RefreshToken struct {
	ID        int64      `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	TokenHash string     `json:"token_hash" db:"token_hash"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	RevokedAt *time.Time `json:"revoked_at" db:"revoked_at"`
}

// IsExpired checks if the refresh token is expired
func (rt *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(rt.ExpiresAt)
}

// IsRevoked checks if the refresh token is revoked
func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

// IsValid checks if the refresh token is valid
func (rt *RefreshToken) IsValid(now time.Time) bool {
	return !rt.IsExpired(now) && !rt.IsRevoked()
}
