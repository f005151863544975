package services

import (
	"testing"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/ports"
)

func TestDashboardIsScopedToVisibleTeams(t *testing.T) {
	e := newEnv(t)
	u := e.actor("u")
	w := e.actor("w")
	eng := e.team(u, "Eng")
	ops := e.team(w, "Ops")
	yesterday := entities.DateOf(baseTime).AddDays(-1)

	if _, err := e.tasks.CreateTask(e.ctx, u, ports.CreateTaskRequest{
		Title:    "Late",
		TeamID:   &eng.ID,
		DueDate:  &yesterday,
		Priority: ptr(entities.PriorityHigh),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	doing := e.task(u, eng, "Doing")
	if _, err := e.tasks.UpdateTask(e.ctx, u, doing.ID, ports.UpdateTaskRequest{Status: ptr(entities.TaskStatusProgress)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	done := e.task(u, eng, "Done")
	if _, err := e.tasks.CompleteTask(e.ctx, u, done.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	project := e.project(u, eng, "Launch")
	if _, err := e.projects.StartProject(e.ctx, u, project.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	// noise in a team u cannot see
	e.task(w, ops, "Other")
	e.project(w, ops, "Other")

	stats, err := e.dashboard.Stats(e.ctx, u)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.TotalTasks != 3 || stats.CompletedTasks != 1 || stats.OverdueTasks != 1 || stats.InProgressTasks != 1 {
		t.Errorf("unexpected task counts %+v", stats)
	}
	if stats.TotalProjects != 1 || stats.ActiveProjects != 1 || stats.TotalTeams != 1 {
		t.Errorf("unexpected project/team counts %+v", stats)
	}
	if stats.TasksByPriority["high"] != 1 || stats.TasksByPriority["medium"] != 2 {
		t.Errorf("unexpected priority breakdown %v", stats.TasksByPriority)
	}
	if stats.TasksByStatus["todo"] != 1 || stats.TasksByStatus["progress"] != 1 || stats.TasksByStatus["done"] != 1 {
		t.Errorf("unexpected status breakdown %v", stats.TasksByStatus)
	}
	if len(stats.RecentTasks) != 3 {
		t.Fatalf("expected 3 recent tasks, got %d", len(stats.RecentTasks))
	}
	for _, task := range stats.RecentTasks {
		if task.TeamID != eng.ID {
			t.Errorf("recent task %d belongs to a foreign team", task.ID)
		}
	}
}

func TestDashboardForNewUser(t *testing.T) {
	e := newEnv(t)
	u := e.actor("u")

	stats, err := e.dashboard.Stats(e.ctx, u)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalTasks != 0 || stats.TotalTeams != 0 || len(stats.RecentTasks) != 0 {
		t.Errorf("expected empty dashboard, got %+v", stats)
	}
}
