package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/core/internal/adapters/repository"
	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/config"
	"github.com/taskflow/core/internal/infrastructure/database/databasetest"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// 2026-03-10 is a Tuesday
var baseTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type env struct {
	t   *testing.T
	ctx context.Context

	users ports.UserRepository

	auth       *AuthService
	profiles   *UserService
	teams      *TeamService
	tasks      *TaskService
	projects   *ProjectService
	categories *CategoryService
	calendar   *CalendarService
	dashboard  *DashboardService

	clock time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := databasetest.New(t)
	log := logger.NewNop()

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	access := NewAccessPolicy(teamRepo, log)

	e := &env{
		t:     t,
		ctx:   context.Background(),
		users: userRepo,
		auth: NewAuthService(userRepo, repository.NewAuthRepository(db), config.JWTConfig{
			Secret:           "test-secret",
			ExpiresIn:        15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
			Issuer:           "taskflow-test",
		}, log),
		profiles:   NewUserService(userRepo, log),
		teams:      NewTeamService(teamRepo, taskRepo, projectRepo, userRepo, access, log),
		tasks:      NewTaskService(taskRepo, teamRepo, categoryRepo, access, log),
		projects:   NewProjectService(projectRepo, taskRepo, teamRepo, access, log),
		categories: NewCategoryService(categoryRepo, log),
		calendar:   NewCalendarService(repository.NewCalendarEventRepository(db), log),
		dashboard:  NewDashboardService(repository.NewStatsRepository(db), log),
		clock:      baseTime,
	}

	clock := func() time.Time { return e.clock }
	e.auth.now = clock
	e.profiles.now = clock
	e.teams.now = clock
	e.tasks.now = clock
	e.projects.now = clock
	e.categories.now = clock
	e.calendar.now = clock
	e.dashboard.now = clock

	return e
}

func (e *env) advance(d time.Duration) {
	e.clock = e.clock.Add(d)
}

func (e *env) actor(username string) entities.Actor {
	e.t.Helper()
	return e.account(username, false)
}

func (e *env) superuser(username string) entities.Actor {
	e.t.Helper()
	return e.account(username, true)
}

func (e *env) account(username string, superuser bool) entities.Actor {
	e.t.Helper()
	u := &entities.User{
		ID:           uuid.New(),
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "unused",
		IsActive:     true,
		IsSuperuser:  superuser,
		CreatedAt:    e.clock,
		UpdatedAt:    e.clock,
	}
	if err := e.users.Create(e.ctx, u); err != nil {
		e.t.Fatalf("create user %s: %v", username, err)
	}
	return u.Actor()
}

func (e *env) team(lead entities.Actor, name string, members ...entities.Actor) *entities.Team {
	e.t.Helper()
	team, err := e.teams.CreateTeam(e.ctx, lead, ports.CreateTeamRequest{Name: name})
	if err != nil {
		e.t.Fatalf("create team %s: %v", name, err)
	}
	for _, m := range members {
		if _, err := e.teams.Join(e.ctx, m, team.ID); err != nil {
			e.t.Fatalf("join team %s: %v", name, err)
		}
	}
	return team
}

func (e *env) task(actor entities.Actor, team *entities.Team, title string) *entities.Task {
	e.t.Helper()
	task, err := e.tasks.CreateTask(e.ctx, actor, ports.CreateTaskRequest{Title: title, TeamID: &team.ID})
	if err != nil {
		e.t.Fatalf("create task %s: %v", title, err)
	}
	return task
}

func (e *env) project(actor entities.Actor, team *entities.Team, title string) *entities.Project {
	e.t.Helper()
	project, err := e.projects.CreateProject(e.ctx, actor, ports.CreateProjectRequest{ProjectTitle: title, TeamID: &team.ID})
	if err != nil {
		e.t.Fatalf("create project %s: %v", title, err)
	}
	return project
}

func expectKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v error, got %v", kind, err)
	}
}

func ptr[T any](v T) *T { return &v }
