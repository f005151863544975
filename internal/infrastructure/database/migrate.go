package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/taskflow/core/internal/infrastructure/config"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrator applies the embedded schema migrations for the database's driver
type Migrator struct {
	m *migrate.Migrate
	// postgres migrations run on their own connection pool, which is closed with the migrator
	ownsConn bool
}

// NewMigrator prepares a migrator for db
func NewMigrator(db *DB) (*Migrator, error) {
	src, err := iofs.New(migrationsFS, "migrations/"+db.Driver())
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	switch db.Driver() {
	case config.DriverPostgres:
		conn, err := sql.Open("postgres", db.config.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open migration connection: %w", err)
		}
		driver, err := migratepg.WithInstance(conn, &migratepg.Config{})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to create postgres migration driver: %w", err)
		}
		m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
		if err != nil {
			driver.Close()
			return nil, fmt.Errorf("failed to create migrator: %w", err)
		}
		return &Migrator{m: m, ownsConn: true}, nil

	case config.DriverSQLite:
		// Closing the sqlite driver closes the shared handle, so this migrator never closes it
		driver, err := migratesqlite.WithInstance(db.DB.DB, &migratesqlite.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create sqlite3 migration driver: %w", err)
		}
		m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
		if err != nil {
			return nil, fmt.Errorf("failed to create migrator: %w", err)
		}
		return &Migrator{m: m}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", db.Driver())
	}
}

// Up applies all pending migrations. It is a no-op when the schema is current.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Down rolls back the given number of migrations
func (mg *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive")
	}
	if err := mg.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}
	return nil
}

// Version returns the current schema version. A database without migrations reports 0.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, dirty, nil
}

// Close releases the migration connection where the migrator owns one
func (mg *Migrator) Close() error {
	if !mg.ownsConn {
		return nil
	}
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}

// Migrate applies all pending migrations to db
func Migrate(db *DB) error {
	mg, err := NewMigrator(db)
	if err != nil {
		return err
	}
	defer mg.Close()

	return mg.Up()
}
