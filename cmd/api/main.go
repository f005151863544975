package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/taskflow/core/cmd/api/commands"
)

// @title TaskFlow API
// @version 1.0
// @description Team-scoped task, project and calendar management

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:           "taskflow",
		Short:         "TaskFlow API Server",
		Long:          `TaskFlow manages tasks, projects and calendars for teams, with every task and project scoped to the team that owns it.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a config file (defaults to ./config.yaml when present)")

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
