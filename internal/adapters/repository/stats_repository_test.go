package repository

import (
	"testing"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/ports"
)

func TestStatsOnlyCountVisibleTasks(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	v := f.user("v")
	mine := f.team("Mine", u)
	theirs := f.team("Theirs", v)
	today := entities.NewDate(2026, 3, 10)

	f.task("overdue", mine, func(task *entities.Task) {
		task.DueDate = datePtr(today.AddDays(-1))
		task.Priority = entities.PriorityHigh
	})
	f.task("done", mine, func(task *entities.Task) {
		task.DueDate = datePtr(today.AddDays(-1))
		task.Complete(baseTime)
	})
	f.task("busy", mine, func(task *entities.Task) { task.Status = entities.TaskStatusProgress })
	f.task("invisible", theirs, func(task *entities.Task) { task.Status = entities.TaskStatusProgress })

	active := f.project("Active", mine)
	if err := active.Start(baseTime); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := f.projects.Update(f.ctx, active); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	f.project("Planned", mine)
	f.project("Other", theirs)

	counts, err := f.stats.TaskCounts(f.ctx, u.ID, today)
	if err != nil {
		t.Fatalf("TaskCounts() error = %v", err)
	}
	if counts.Total != 3 || counts.Completed != 1 || counts.Overdue != 1 || counts.InProgress != 1 {
		t.Errorf("TaskCounts() = %+v", counts)
	}

	projects, err := f.stats.ProjectCounts(f.ctx, u.ID)
	if err != nil {
		t.Fatalf("ProjectCounts() error = %v", err)
	}
	if projects.Total != 2 || projects.Active != 1 {
		t.Errorf("ProjectCounts() = %+v", projects)
	}

	teams, err := f.stats.ActiveTeamCount(f.ctx, u.ID)
	if err != nil || teams != 1 {
		t.Errorf("ActiveTeamCount() = %d, %v; want 1", teams, err)
	}

	byPriority, err := f.stats.TasksByPriority(f.ctx, u.ID)
	if err != nil {
		t.Fatalf("TasksByPriority() error = %v", err)
	}
	if len(byPriority) != 2 || byPriority["high"] != 1 || byPriority["medium"] != 2 {
		t.Errorf("TasksByPriority() = %v", byPriority)
	}
	if _, ok := byPriority["low"]; ok {
		t.Error("absent priorities must be omitted")
	}

	byStatus, err := f.stats.TasksByStatus(f.ctx, u.ID)
	if err != nil {
		t.Fatalf("TasksByStatus() error = %v", err)
	}
	if byStatus["todo"] != 1 || byStatus["done"] != 1 || byStatus["progress"] != 1 {
		t.Errorf("TasksByStatus() = %v", byStatus)
	}

	recent, err := f.stats.RecentTasks(f.ctx, u.ID, 2)
	if err != nil {
		t.Fatalf("RecentTasks() error = %v", err)
	}
	if len(recent) != 2 || recent[0].Title != "busy" || recent[1].Title != "done" {
		t.Errorf("RecentTasks() = %v", recent)
	}
}

func TestStatsForUserWithoutTeams(t *testing.T) {
	f := newFixture(t)
	loner := f.user("loner")

	counts, err := f.stats.TaskCounts(f.ctx, loner.ID, entities.NewDate(2026, 3, 10))
	if err != nil {
		t.Fatalf("TaskCounts() error = %v", err)
	}
	if counts != (ports.TaskCounts{}) {
		t.Errorf("TaskCounts() = %+v, want zeros", counts)
	}
}

func TestOverdueQueriesMatchTaskRule(t *testing.T) {
	f := newFixture(t)
	u := f.user("u")
	team := f.team("Eng", u)
	today := entities.NewDate(2026, 3, 10)

	created := []*entities.Task{
		f.task("yesterday open", team, func(task *entities.Task) { task.DueDate = datePtr(today.AddDays(-1)) }),
		f.task("last week in progress", team, func(task *entities.Task) {
			task.DueDate = datePtr(today.AddDays(-7))
			task.Status = entities.TaskStatusProgress
		}),
		f.task("yesterday done", team, func(task *entities.Task) {
			task.DueDate = datePtr(today.AddDays(-1))
			task.Complete(baseTime)
		}),
		f.task("due today", team, func(task *entities.Task) { task.DueDate = datePtr(today) }),
		f.task("due tomorrow", team, func(task *entities.Task) { task.DueDate = datePtr(today.AddDays(1)) }),
		f.task("no date", team),
	}

	want := map[string]bool{}
	for _, task := range created {
		if task.IsOverdue(today) {
			want[task.Title] = true
		}
	}
	if len(want) != 2 {
		t.Fatalf("IsOverdue() matched %v, want the two open past-due tasks", want)
	}

	counts, err := f.stats.TaskCounts(f.ctx, u.ID, today)
	if err != nil {
		t.Fatalf("TaskCounts() error = %v", err)
	}
	if counts.Overdue != len(want) {
		t.Errorf("TaskCounts().Overdue = %d, want %d", counts.Overdue, len(want))
	}

	open := false
	listed, total, err := f.tasks.List(f.ctx, ports.TaskFilter{VisibleTo: u.ID, DueBefore: &today, IsCompleted: &open})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != len(want) {
		t.Errorf("List() total = %d, want %d", total, len(want))
	}
	for _, task := range listed {
		if !want[task.Title] {
			t.Errorf("List() returned %q, which IsOverdue rejects", task.Title)
		}
	}
}
