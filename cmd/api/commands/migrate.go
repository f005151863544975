package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow/core/internal/infrastructure/database"
)

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *database.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
				return nil
			})
		},
	})

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			return withMigrator(cmd, func(m *database.Migrator) error {
				if err := m.Down(steps); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migrations rolled back")
				return nil
			})
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migrations to roll back (0 for all)")
	migrateCmd.AddCommand(downCmd)

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *database.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Current migration version: %d\n", version)
				fmt.Fprintf(cmd.OutOrStdout(), "Dirty: %t\n", dirty)
				return nil
			})
		},
	})

	return migrateCmd
}

func withMigrator(cmd *cobra.Command, fn func(*database.Migrator) error) error {
	_, appLogger, db, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer appLogger.Close()
	defer db.Close()

	m, err := database.NewMigrator(db)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}
