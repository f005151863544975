// Package commands implements the taskflow CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taskflow/core/internal/infrastructure/config"
	"github.com/taskflow/core/internal/infrastructure/database"
	"github.com/taskflow/core/internal/infrastructure/logger"
)

// Build metadata, set with -ldflags "-X github.com/taskflow/core/cmd/api/commands.Version=..."
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "development"
)

// loadConfig honors the root --config flag
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadWith(viper.New(), configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// bootstrap loads configuration, the logger and the database connection
func bootstrap(cmd *cobra.Command) (*config.Config, *logger.Logger, *database.DB, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		appLogger.Close()
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return cfg, appLogger, db, nil
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print TaskFlow version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "TaskFlow Core %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Build Date: %s\n", BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", GitCommit)
		},
	}
}
