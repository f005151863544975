package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/taskflow/core/internal/infrastructure/database"
	"github.com/taskflow/core/internal/infrastructure/database/databasetest"
)

func TestMigrationsCreateSchema(t *testing.T) {
	db := databasetest.New(t)

	tables := []string{
		"users", "refresh_tokens", "categories", "teams", "team_members",
		"tasks", "projects", "project_tasks", "calendar_events",
	}
	for _, table := range tables {
		var n int
		err := db.DB.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		if err != nil {
			t.Fatalf("lookup %s: %v", table, err)
		}
		if n != 1 {
			t.Errorf("table %s missing", table)
		}
	}
}

func TestMigratorVersionAndRerun(t *testing.T) {
	db := databasetest.New(t)

	mg, err := database.NewMigrator(db)
	if err != nil {
		t.Fatalf("NewMigrator() error = %v", err)
	}

	if err := mg.Up(); err != nil {
		t.Fatalf("Up() on current schema: %v", err)
	}

	version, dirty, err := mg.Version()
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("Version() = %d dirty=%v, want 1 clean", version, dirty)
	}

	if err := mg.Down(1); err != nil {
		t.Fatalf("Down(1) error = %v", err)
	}
	version, _, err = mg.Version()
	if err != nil {
		t.Fatalf("Version() after down: %v", err)
	}
	if version != 0 {
		t.Errorf("Version() after down = %d, want 0", version)
	}
}

func TestWithTransactionRollsBack(t *testing.T) {
	db := databasetest.New(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(
			"INSERT INTO categories (name, color, created_at, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)"),
			"rolled-back", "#000000")
		if err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTransaction() error = %v, want %v", err, boom)
	}

	var n int
	if err := db.DB.Get(&n, "SELECT COUNT(*) FROM categories"); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("categories = %d, want 0 after rollback", n)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db := databasetest.New(t)

	_, err := db.DB.Exec(
		"INSERT INTO team_members (team_id, user_id, joined_at) VALUES (42, 'missing', CURRENT_TIMESTAMP)")
	if err == nil {
		t.Fatal("expected foreign key violation")
	}
}

func TestHealthCheck(t *testing.T) {
	db := databasetest.New(t)

	if err := db.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck() error = %v", err)
	}
	if db.GetConnectionInfo()["driver"] != "sqlite3" {
		t.Errorf("GetConnectionInfo() driver = %v", db.GetConnectionInfo()["driver"])
	}
}
