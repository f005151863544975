package ports

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/core/internal/domain/entities"
)

// Request/Response Types

// Auth related types
type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Username  string  `json:"username" validate:"required,min=3,max=150"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	User         *entities.User `json:"user"`
}

type Claims struct {
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	IsSuperuser bool      `json:"is_superuser"`
}

// User related types
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
}

// Category related types
type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,max=20"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Color *string `json:"color" validate:"omitempty,max=20"`
}

// Team related types
type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type UpdateTeamRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	IsActive    *bool      `json:"is_active"`
	TeamLeadID  *uuid.UUID `json:"team_lead_id"`
}

type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// JoinResult reports the outcome of a join request; joining twice is not an error
type JoinResult struct {
	Detail string `json:"detail"`
	Joined bool   `json:"joined"`
	TeamID int64  `json:"team_id"`
}

// Task related types
type CreateTaskRequest struct {
	Title         string               `json:"title" validate:"required,max=200"`
	Description   string               `json:"description" validate:"max=5000"`
	Status        *entities.TaskStatus `json:"status"`
	Priority      *entities.Priority   `json:"priority"`
	DueDate       *entities.Date       `json:"due_date"`
	TeamID        *int64               `json:"team_id"`
	ResponsibleID *uuid.UUID           `json:"responsible_id"`
	CategoryID    *int64               `json:"category_id"`
}

type UpdateTaskRequest struct {
	Title         *string              `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string              `json:"description" validate:"omitempty,max=5000"`
	Status        *entities.TaskStatus `json:"status"`
	Priority      *entities.Priority   `json:"priority"`
	DueDate       *entities.Date       `json:"due_date"`
	TeamID        *int64               `json:"team_id"`
	ResponsibleID *uuid.UUID           `json:"responsible_id"`
	CategoryID    *int64               `json:"category_id"`
}

// Project related types
type CreateProjectRequest struct {
	ProjectTitle string                  `json:"project_title" validate:"required,max=200"`
	Description  string                  `json:"description" validate:"max=5000"`
	Status       *entities.ProjectStatus `json:"status"`
	Deadline     *entities.Date          `json:"deadline"`
	TeamID       *int64                  `json:"team_id"`
}

type UpdateProjectRequest struct {
	ProjectTitle *string                 `json:"project_title" validate:"omitempty,min=1,max=200"`
	Description  *string                 `json:"description" validate:"omitempty,max=5000"`
	Status       *entities.ProjectStatus `json:"status"`
	Deadline     *entities.Date          `json:"deadline"`
	TeamID       *int64                  `json:"team_id"`
}

type ProjectTaskRequest struct {
	TaskID int64 `json:"task_id" validate:"required"`
}

// Calendar related types
type CreateCalendarEventRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Location    string    `json:"location" validate:"max=255"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	CalendarID  string    `json:"calendar_id" validate:"max=100"`
}

type UpdateCalendarEventRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Location    *string    `json:"location" validate:"omitempty,max=255"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	CalendarID  *string    `json:"calendar_id" validate:"omitempty,max=100"`
}

// Dashboard related types
type DashboardStats struct {
	TotalTasks      int              `json:"total_tasks"`
	CompletedTasks  int              `json:"completed_tasks"`
	OverdueTasks    int              `json:"overdue_tasks"`
	InProgressTasks int              `json:"in_progress_tasks"`
	TotalProjects   int              `json:"total_projects"`
	ActiveProjects  int              `json:"active_projects"`
	TotalTeams      int              `json:"total_teams"`
	TasksByPriority map[string]int   `json:"tasks_by_priority"`
	TasksByStatus   map[string]int   `json:"tasks_by_status"`
	RecentTasks     []*entities.Task `json:"recent_tasks"`
}

// Response types for pagination and common structures
type PaginatedResponse[T any] struct {
	Data   []T `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
