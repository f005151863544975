package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/database"
	"github.com/taskflow/core/internal/infrastructure/database/databasetest"
)

var baseTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *database.DB

	users      *UserRepositoryImpl
	teams      *TeamRepositoryImpl
	tasks      *TaskRepositoryImpl
	projects   *ProjectRepositoryImpl
	categories *CategoryRepositoryImpl
	events     *CalendarEventRepositoryImpl
	stats      *StatsRepositoryImpl

	tick int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := databasetest.New(t)
	return &fixture{
		t:          t,
		ctx:        context.Background(),
		db:         db,
		users:      &UserRepositoryImpl{db: db},
		teams:      &TeamRepositoryImpl{db: db},
		tasks:      &TaskRepositoryImpl{db: db},
		projects:   &ProjectRepositoryImpl{db: db},
		categories: &CategoryRepositoryImpl{db: db},
		events:     &CalendarEventRepositoryImpl{db: db},
		stats:      &StatsRepositoryImpl{db: db},
	}
}

// now advances one minute per call so creation order is observable
func (f *fixture) now() time.Time {
	f.tick++
	return baseTime.Add(time.Duration(f.tick) * time.Minute)
}

func (f *fixture) user(username string) *entities.User {
	f.t.Helper()
	now := f.now()
	u := &entities.User{
		ID:           uuid.New(),
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "hash",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := f.users.Create(f.ctx, u); err != nil {
		f.t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func (f *fixture) team(name string, lead *entities.User) *entities.Team {
	f.t.Helper()
	now := f.now()
	team := &entities.Team{
		Name:       name,
		TeamLeadID: lead.ID,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := f.teams.Create(f.ctx, team); err != nil {
		f.t.Fatalf("create team %s: %v", name, err)
	}
	return team
}

func (f *fixture) task(title string, team *entities.Team, mutate ...func(*entities.Task)) *entities.Task {
	f.t.Helper()
	now := f.now()
	task := &entities.Task{
		Title:     title,
		Status:    entities.TaskStatusTodo,
		Priority:  entities.PriorityMedium,
		TeamID:    team.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, m := range mutate {
		m(task)
	}
	if err := f.tasks.Create(f.ctx, task); err != nil {
		f.t.Fatalf("create task %s: %v", title, err)
	}
	return task
}

func (f *fixture) project(title string, team *entities.Team) *entities.Project {
	f.t.Helper()
	now := f.now()
	p := &entities.Project{
		ProjectTitle: title,
		Status:       entities.ProjectStatusPlanned,
		TeamID:       team.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := f.projects.Create(f.ctx, p); err != nil {
		f.t.Fatalf("create project %s: %v", title, err)
	}
	return p
}

func datePtr(d entities.Date) *entities.Date { return &d }
