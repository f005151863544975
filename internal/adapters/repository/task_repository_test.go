package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/ports"
)

func TestTaskRoundTripDerivesCompletion(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	team := f.team("Eng", u)
	due := entities.NewDate(2026, 3, 12)

	task := f.task("Ship it", team, func(task *entities.Task) {
		task.DueDate = &due
		task.ResponsibleID = uuid.NullUUID{UUID: u.ID, Valid: true}
	})

	got, err := f.tasks.GetByID(f.ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.IsCompleted {
		t.Error("new task reported completed")
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("DueDate = %v, want %v", got.DueDate, due)
	}
	if got.TeamName != "Eng" || got.ResponsibleUsername == nil || *got.ResponsibleUsername != "u" {
		t.Errorf("joined names = %q / %v", got.TeamName, got.ResponsibleUsername)
	}

	completedAt := f.now()
	got.Complete(completedAt)
	got.UpdatedAt = completedAt
	if err := f.tasks.Update(f.ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err = f.tasks.GetByID(f.ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !got.IsCompleted || got.Status != entities.TaskStatusDone {
		t.Errorf("after complete: status=%s completed=%v", got.Status, got.IsCompleted)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(completedAt) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, completedAt)
	}
}

func TestTaskListScopesToVisibleTeams(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	v := f.user("v")
	mine := f.team("Mine", u)
	theirs := f.team("Theirs", v)
	shared := f.team("Shared", v)
	if _, err := f.teams.AddMember(f.ctx, shared.ID, u.ID); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	f.task("a", mine)
	f.task("b", theirs)
	f.task("c", shared)

	tasks, total, err := f.tasks.List(f.ctx, ports.TaskFilter{VisibleTo: u.ID})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	for _, task := range tasks {
		if task.TeamID == theirs.ID {
			t.Errorf("task %q from an invisible team leaked", task.Title)
		}
	}
	// newest first by default
	if tasks[0].Title != "c" || tasks[1].Title != "a" {
		t.Errorf("order = %q, %q; want c, a", tasks[0].Title, tasks[1].Title)
	}
}

func TestTaskListFilters(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	team := f.team("Eng", u)
	today := entities.NewDate(2026, 3, 10)

	category := &entities.Category{Name: "Bug", Color: "#ff0000", CreatedAt: baseTime, UpdatedAt: baseTime}
	if err := f.categories.Create(f.ctx, category); err != nil {
		t.Fatalf("create category: %v", err)
	}

	f.task("overdue", team, func(task *entities.Task) {
		task.DueDate = datePtr(today.AddDays(-1))
		task.Priority = entities.PriorityCritical
	})
	f.task("done late", team, func(task *entities.Task) {
		task.DueDate = datePtr(today.AddDays(-1))
		task.Complete(baseTime)
	})
	f.task("due today", team, func(task *entities.Task) {
		task.DueDate = datePtr(today)
		task.Status = entities.TaskStatusProgress
		task.CategoryID = &category.ID
	})
	f.task("no date", team, func(task *entities.Task) {
		task.Priority = entities.PriorityLow
		task.Description = "Refactor the parser"
	})

	notCompleted := false
	completed := true
	progress := entities.TaskStatusProgress
	critical := entities.PriorityCritical

	tests := []struct {
		name   string
		filter ports.TaskFilter
		want   []string
	}{
		{"overdue", ports.TaskFilter{DueBefore: &today, IsCompleted: &notCompleted}, []string{"overdue"}},
		{"today", ports.TaskFilter{DueOn: &today}, []string{"due today"}},
		{"completed", ports.TaskFilter{IsCompleted: &completed}, []string{"done late"}},
		{"status", ports.TaskFilter{Status: &progress}, []string{"due today"}},
		{"priority", ports.TaskFilter{Priority: &critical}, []string{"overdue"}},
		{"category", ports.TaskFilter{CategoryID: &category.ID}, []string{"due today"}},
		{"search description", ports.TaskFilter{ListParams: ports.ListParams{Search: "PARSER"}}, []string{"no date"}},
		{"priority ordering", ports.TaskFilter{ListParams: ports.ListParams{Ordering: "-priority"}},
			[]string{"overdue", "due today", "done late", "no date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.VisibleTo = u.ID
			tasks, total, err := f.tasks.List(f.ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if total != len(tt.want) {
				t.Fatalf("total = %d, want %d", total, len(tt.want))
			}
			for i, title := range tt.want {
				if tasks[i].Title != title {
					t.Errorf("tasks[%d] = %q, want %q", i, tasks[i].Title, title)
				}
			}
		})
	}
}

func TestTaskMoveDetachesForeignProjects(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	eng := f.team("Eng", u)
	ops := f.team("Ops", u)
	task := f.task("Migrate", eng)
	project := f.project("Q2", eng)

	if err := f.projects.AttachTask(f.ctx, project.ID, task.ID); err != nil {
		t.Fatalf("AttachTask() error = %v", err)
	}

	task.TeamID = ops.ID
	task.UpdatedAt = baseTime.Add(time.Hour)
	if err := f.tasks.Update(f.ctx, task); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	tasks, err := f.projects.ListTasks(f.ctx, project.ID)
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("project still holds %d tasks after the task changed team", len(tasks))
	}
}

func TestTaskWithoutOptionalRelations(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	team := f.team("Eng", u)
	task := f.task("Orphan", team)

	got, err := f.tasks.GetByID(f.ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.ResponsibleID.Valid || got.ResponsibleUsername != nil {
		t.Errorf("responsible = %v / %v, want none", got.ResponsibleID, got.ResponsibleUsername)
	}
	if got.CategoryID != nil || got.CategoryName != nil {
		t.Errorf("category = %v / %v, want none", got.CategoryID, got.CategoryName)
	}
}
