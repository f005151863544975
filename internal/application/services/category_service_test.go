package services

import (
	"testing"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/ports"
)

func TestCategoryLifecycle(t *testing.T) {
	e := newEnv(t)
	u := e.actor("u")
	v := e.actor("v")

	bug, err := e.categories.CreateCategory(e.ctx, u, ports.CreateCategoryRequest{Name: "Bug"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if bug.Color != entities.DefaultCategoryColor {
		t.Errorf("expected default color, got %q", bug.Color)
	}

	_, err = e.categories.CreateCategory(e.ctx, v, ports.CreateCategoryRequest{Name: "Bug"})
	expectKind(t, err, entities.ErrConflict)

	feature, err := e.categories.CreateCategory(e.ctx, v, ports.CreateCategoryRequest{Name: "Feature", Color: "#10b981"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = e.categories.UpdateCategory(e.ctx, u, feature.ID, ports.UpdateCategoryRequest{Name: ptr("Bug")})
	expectKind(t, err, entities.ErrConflict)

	// renaming to its own name is not a conflict
	same, err := e.categories.UpdateCategory(e.ctx, u, feature.ID, ports.UpdateCategoryRequest{Name: ptr("Feature"), Color: ptr("#000000")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if same.Color != "#000000" {
		t.Errorf("expected new color, got %q", same.Color)
	}

	categories, total, err := e.categories.ListCategories(e.ctx, ports.CategoryFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || categories[0].Name != "Bug" || categories[1].Name != "Feature" {
		t.Errorf("expected categories ordered by name, got %d", total)
	}
}

func TestDeleteCategoryClearsTasks(t *testing.T) {
	e := newEnv(t)
	u := e.actor("u")
	eng := e.team(u, "Eng")

	bug, err := e.categories.CreateCategory(e.ctx, u, ports.CreateCategoryRequest{Name: "Bug"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	task, err := e.tasks.CreateTask(e.ctx, u, ports.CreateTaskRequest{Title: "Crash", TeamID: &eng.ID, CategoryID: &bug.ID})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.CategoryName == nil || *task.CategoryName != "Bug" {
		t.Errorf("expected category name Bug, got %v", task.CategoryName)
	}

	if err := e.categories.DeleteCategory(e.ctx, u, bug.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := e.tasks.GetTask(e.ctx, u, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.CategoryID != nil {
		t.Errorf("expected category to be cleared, got %d", *got.CategoryID)
	}

	_, err = e.categories.GetCategory(e.ctx, bug.ID)
	expectKind(t, err, entities.ErrNotFound)
}
