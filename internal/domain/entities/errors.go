package entities

import (
	"errors"
	"fmt"
)

// Error kinds. Every DomainError unwraps to exactly one of these.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
)

// DomainError is raised at the point a business rule fails and is surfaced to
// the caller unchanged.
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Kind
}

func NotFound(format string, args ...interface{}) error {
	return &DomainError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func PermissionDenied(format string, args ...interface{}) error {
	return &DomainError{Kind: ErrPermissionDenied, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) error {
	return &DomainError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// Common errors
var (
	ErrUserNotFound     = &DomainError{Kind: ErrNotFound, Message: "user not found"}
	ErrTeamNotFound     = &DomainError{Kind: ErrNotFound, Message: "team not found"}
	ErrTaskNotFound     = &DomainError{Kind: ErrNotFound, Message: "task not found"}
	ErrProjectNotFound  = &DomainError{Kind: ErrNotFound, Message: "project not found"}
	ErrCategoryNotFound = &DomainError{Kind: ErrNotFound, Message: "category not found"}
	ErrEventNotFound    = &DomainError{Kind: ErrNotFound, Message: "calendar event not found"}
	ErrTaskNotAttached  = &DomainError{Kind: ErrNotFound, Message: "task is not attached to this project"}

	ErrNotTeamMember = &DomainError{Kind: ErrPermissionDenied, Message: "you are not a member of this team"}
	ErrNotTeamLead   = &DomainError{Kind: ErrPermissionDenied, Message: "only the team lead can perform this action"}

	ErrTeamRequired         = &DomainError{Kind: ErrValidation, Message: "team is required"}
	ErrResponsibleNotInTeam = &DomainError{Kind: ErrValidation, Message: "responsible user must be a member of the team"}
	ErrInvalidTaskStatus    = &DomainError{Kind: ErrValidation, Message: "invalid task status"}
	ErrInvalidPriority      = &DomainError{Kind: ErrValidation, Message: "invalid priority"}
	ErrInvalidProjectStatus = &DomainError{Kind: ErrValidation, Message: "invalid project status"}
	ErrProjectNotStartable  = &DomainError{Kind: ErrValidation, Message: "only planned or on hold projects can be started"}
	ErrInvalidDate          = &DomainError{Kind: ErrValidation, Message: "date must be a valid YYYY-MM-DD day"}
	ErrInvalidTimeRange     = &DomainError{Kind: ErrValidation, Message: "end_time cannot be before start_time"}
	ErrLeadCannotLeave      = &DomainError{Kind: ErrValidation, Message: "the team lead cannot leave or be removed from the team"}

	ErrEmailTaken     = &DomainError{Kind: ErrConflict, Message: "email is already registered"}
	ErrUsernameTaken  = &DomainError{Kind: ErrConflict, Message: "username is already taken"}
	ErrCategoryExists = &DomainError{Kind: ErrConflict, Message: "category with this name already exists"}

	ErrInvalidCredentials = &DomainError{Kind: ErrUnauthorized, Message: "invalid credentials"}
	ErrAccountInactive    = &DomainError{Kind: ErrUnauthorized, Message: "account is inactive"}
	ErrInvalidToken       = &DomainError{Kind: ErrUnauthorized, Message: "invalid or expired token"}
)
