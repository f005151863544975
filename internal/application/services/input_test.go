package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/ports"
)

func TestBlankTextIsRejected(t *testing.T) {
	e := newEnv(t)
	u := e.actor("u")
	eng := e.team(u, "Eng")
	task := e.task(u, eng, "Fix bug")
	project := e.project(u, eng, "Launch")
	category, err := e.categories.CreateCategory(e.ctx, u, ports.CreateCategoryRequest{Name: "Ops"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	event, err := e.calendar.CreateEvent(e.ctx, u, ports.CreateCalendarEventRequest{
		Title:     "Standup",
		StartTime: baseTime,
		EndTime:   baseTime.Add(15 * time.Minute),
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	blank := "  \t "
	tests := []struct {
		name string
		call func() error
	}{
		{"create team", func() error {
			_, err := e.teams.CreateTeam(e.ctx, u, ports.CreateTeamRequest{Name: blank})
			return err
		}},
		{"update team", func() error {
			_, err := e.teams.UpdateTeam(e.ctx, u, eng.ID, ports.UpdateTeamRequest{Name: &blank})
			return err
		}},
		{"create task", func() error {
			_, err := e.tasks.CreateTask(e.ctx, u, ports.CreateTaskRequest{Title: blank, TeamID: &eng.ID})
			return err
		}},
		{"update task", func() error {
			_, err := e.tasks.UpdateTask(e.ctx, u, task.ID, ports.UpdateTaskRequest{Title: &blank})
			return err
		}},
		{"create project", func() error {
			_, err := e.projects.CreateProject(e.ctx, u, ports.CreateProjectRequest{ProjectTitle: blank, TeamID: &eng.ID})
			return err
		}},
		{"update project", func() error {
			_, err := e.projects.UpdateProject(e.ctx, u, project.ID, ports.UpdateProjectRequest{ProjectTitle: &blank})
			return err
		}},
		{"create category", func() error {
			_, err := e.categories.CreateCategory(e.ctx, u, ports.CreateCategoryRequest{Name: blank})
			return err
		}},
		{"update category", func() error {
			_, err := e.categories.UpdateCategory(e.ctx, u, category.ID, ports.UpdateCategoryRequest{Name: &blank})
			return err
		}},
		{"create event", func() error {
			_, err := e.calendar.CreateEvent(e.ctx, u, ports.CreateCalendarEventRequest{
				Title: blank, StartTime: baseTime, EndTime: baseTime,
			})
			return err
		}},
		{"update event", func() error {
			_, err := e.calendar.UpdateEvent(e.ctx, u, event.ID, ports.UpdateCalendarEventRequest{Title: &blank})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectKind(t, tt.call(), entities.ErrValidation)
		})
	}

	stored, err := e.tasks.GetTask(e.ctx, u, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if stored.Title != "Fix bug" {
		t.Errorf("rejected update changed the title to %q", stored.Title)
	}
}

func TestEmptyDueDateIsRejected(t *testing.T) {
	var req ports.CreateTaskRequest
	if err := json.Unmarshal([]byte(`{"title":"t","team_id":1,"due_date":""}`), &req); err == nil {
		t.Fatalf("expected an empty due_date to be rejected, got %v", req.DueDate)
	}

	var project ports.UpdateProjectRequest
	if err := json.Unmarshal([]byte(`{"deadline":""}`), &project); err == nil {
		t.Fatalf("expected an empty deadline to be rejected, got %v", project.Deadline)
	}
}

func TestZeroDatesNeverBecomeOverdue(t *testing.T) {
	e := newEnv(t)
	u := e.actor("u")
	eng := e.team(u, "Eng")
	task := e.task(u, eng, "Fix bug")
	project := e.project(u, eng, "Launch")
	zero := entities.Date{}

	_, err := e.tasks.CreateTask(e.ctx, u, ports.CreateTaskRequest{Title: "t", TeamID: &eng.ID, DueDate: &zero})
	expectKind(t, err, entities.ErrInvalidDate)

	_, err = e.tasks.UpdateTask(e.ctx, u, task.ID, ports.UpdateTaskRequest{DueDate: &zero})
	expectKind(t, err, entities.ErrInvalidDate)

	_, err = e.projects.CreateProject(e.ctx, u, ports.CreateProjectRequest{ProjectTitle: "p", TeamID: &eng.ID, Deadline: &zero})
	expectKind(t, err, entities.ErrInvalidDate)

	_, err = e.projects.UpdateProject(e.ctx, u, project.ID, ports.UpdateProjectRequest{Deadline: &zero})
	expectKind(t, err, entities.ErrInvalidDate)

	stats, err := e.dashboard.Stats(e.ctx, u)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.OverdueTasks != 0 {
		t.Errorf("expected no overdue tasks, got %d", stats.OverdueTasks)
	}
}
