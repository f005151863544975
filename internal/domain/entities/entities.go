package entities

import (
	"time"

	"github.com/google/uuid"
)

// Enums and types
type TaskStatus string

const (
	TaskStatusTodo     TaskStatus = "todo"
	TaskStatusProgress TaskStatus = "progress"
	TaskStatusDone     TaskStatus = "done"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type ProjectStatus string

const (
	ProjectStatusPlanned   ProjectStatus = "planned"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// DefaultCategoryColor is used when a category is created without a color
const DefaultCategoryColor = "#3b82f6"

// Actor is the authenticated identity a request runs as
type Actor struct {
	UserID      uuid.UUID
	Username    string
	IsSuperuser bool
}

// User represents an account in the system
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    *string   `json:"first_name" db:"first_name"`
	LastName     *string   `json:"last_name" db:"last_name"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	IsSuperuser  bool      `json:"is_superuser" db:"is_superuser"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserSummary is the public projection of a user embedded in other resources
type UserSummary struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Username string    `json:"username" db:"username"`
	Email    string    `json:"email" db:"email"`
}

// Category is a global label tasks can be filed under
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Team is the authorization boundary for tasks and projects
type Team struct {
	ID               int64         `json:"id" db:"id"`
	Name             string        `json:"name" db:"name"`
	Description      string        `json:"description" db:"description"`
	TeamLeadID       uuid.UUID     `json:"team_lead_id" db:"team_lead_id"`
	TeamLeadUsername string        `json:"team_lead_username" db:"team_lead_username"`
	IsActive         bool          `json:"is_active" db:"is_active"`
	MemberCount      int           `json:"member_count" db:"member_count"`
	Members          []UserSummary `json:"members,omitempty" db:"-"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

// TeamPreview is the public summary shown on an invite link
type TeamPreview struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	TeamLeadID       uuid.UUID `json:"team_lead_id"`
	TeamLeadUsername string    `json:"team_lead_username"`
	MemberCount      int       `json:"member_count"`
	IsMember         bool      `json:"is_member"`
}

// Task represents a unit of work owned by a team
type Task struct {
	ID                  int64         `json:"id" db:"id"`
	Title               string        `json:"title" db:"title"`
	Description         string        `json:"description" db:"description"`
	Status              TaskStatus    `json:"status" db:"status"`
	Priority            Priority      `json:"priority" db:"priority"`
	DueDate             *Date         `json:"due_date" db:"due_date"`
	IsCompleted         bool          `json:"is_completed" db:"is_completed"`
	CompletedAt         *time.Time    `json:"completed_at" db:"completed_at"`
	TeamID              int64         `json:"team_id" db:"team_id"`
	TeamName            string        `json:"team_name" db:"team_name"`
	ResponsibleID       uuid.NullUUID `json:"responsible_id" db:"responsible_id"`
	ResponsibleUsername *string       `json:"responsible_username" db:"responsible_username"`
	CategoryID          *int64        `json:"category_id" db:"category_id"`
	CategoryName        *string       `json:"category_name" db:"category_name"`
	CreatedAt           time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at" db:"updated_at"`
}

// Project groups tasks of a single team
type Project struct {
	ID           int64         `json:"id" db:"id"`
	ProjectTitle string        `json:"project_title" db:"project_title"`
	Description  string        `json:"description" db:"description"`
	Status       ProjectStatus `json:"status" db:"status"`
	Deadline     *Date         `json:"deadline" db:"deadline"`
	StartedAt    *time.Time    `json:"started_at" db:"started_at"`
	TeamID       int64         `json:"team_id" db:"team_id"`
	TeamName     string        `json:"team_name" db:"team_name"`
	TaskCount    int           `json:"task_count" db:"task_count"`
	Tasks        []*Task       `json:"tasks,omitempty" db:"-"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// CalendarEvent is private to its owner and never team scoped
type CalendarEvent struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Location    string    `json:"location" db:"location"`
	StartTime   time.Time `json:"start_time" db:"start_time"`
	EndTime     time.Time `json:"end_time" db:"end_time"`
	OwnerID     uuid.UUID `json:"owner_id" db:"owner_id"`
	CalendarID  string    `json:"calendar_id" db:"calendar_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Business logic methods for User

func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Username: u.Username, IsSuperuser: u.IsSuperuser}
}

// Business logic methods for Team

func (t *Team) IsLead(userID uuid.UUID) bool {
	return t.TeamLeadID == userID
}

// Business logic methods for Task

// Complete moves the task to done. Completing a task that is already done keeps
// its original completion time.
func (t *Task) Complete(now time.Time) {
	if t.Status == TaskStatusDone && t.CompletedAt != nil {
		t.IsCompleted = true
		return
	}

	t.Status = TaskStatusDone
	t.IsCompleted = true
	completedAt := now
	t.CompletedAt = &completedAt
}

// Reopen always lands on todo, whatever the previous status was.
func (t *Task) Reopen() {
	t.Status = TaskStatusTodo
	t.IsCompleted = false
	t.CompletedAt = nil
}

// ApplyStatus is the only way a status changes outside of Complete and Reopen;
// it keeps IsCompleted and CompletedAt consistent with the status.
func (t *Task) ApplyStatus(status TaskStatus, now time.Time) error {
	if !status.IsValid() {
		return ErrInvalidTaskStatus
	}

	if status == TaskStatusDone {
		t.Complete(now)
		return nil
	}

	t.Status = status
	t.IsCompleted = false
	t.CompletedAt = nil
	return nil
}

// IsOverdue reports whether the due date is strictly before today and the task is open.
func (t *Task) IsOverdue(today Date) bool {
	if t.DueDate == nil || t.IsCompleted {
		return false
	}
	return t.DueDate.Before(today)
}

// Business logic methods for Project

func (p *Project) IsActive() bool {
	return p.Status == ProjectStatusActive
}

// Start activates a planned or paused project. Starting an active project is a no-op.
func (p *Project) Start(now time.Time) error {
	switch p.Status {
	case ProjectStatusActive:
		return nil
	case ProjectStatusPlanned, ProjectStatusOnHold:
		p.Status = ProjectStatusActive
		if p.StartedAt == nil {
			startedAt := now
			p.StartedAt = &startedAt
		}
		return nil
	default:
		return ErrProjectNotStartable
	}
}

// ApplyStatus sets a status requested through an update. Becoming active goes
// through Start so finished projects cannot be revived.
func (p *Project) ApplyStatus(status ProjectStatus, now time.Time) error {
	if !status.IsValid() {
		return ErrInvalidProjectStatus
	}
	if status == ProjectStatusActive {
		return p.Start(now)
	}

	p.Status = status
	return nil
}

// Business logic methods for CalendarEvent

func (e *CalendarEvent) Validate() error {
	if e.EndTime.Before(e.StartTime) {
		return ErrInvalidTimeRange
	}
	return nil
}

// Utility methods

func (ts TaskStatus) IsValid() bool {
	switch ts {
	case TaskStatusTodo, TaskStatusProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// Priorities lists every priority from least to most urgent
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Rank orders priorities from least to most urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	default:
		return 0
	}
}

func (ps ProjectStatus) IsValid() bool {
	switch ps {
	case ProjectStatusPlanned, ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	default:
		return false
	}
}
