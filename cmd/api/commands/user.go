package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow/core/internal/adapters/repository"
	"github.com/taskflow/core/internal/application/services"
	"github.com/taskflow/core/internal/ports"
)

// NewUserCommand creates the user management command
func NewUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
		Long:  "Create accounts outside of self registration",
	}

	createUserCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			email, _ := flags.GetString("email")
			username, _ := flags.GetString("username")
			password, _ := flags.GetString("password")
			firstName, _ := flags.GetString("first-name")
			lastName, _ := flags.GetString("last-name")
			superuser, _ := flags.GetBool("superuser")

			if email == "" || username == "" || password == "" {
				return errors.New("email, username and password are required")
			}

			req := ports.RegisterRequest{Email: email, Username: username, Password: password}
			if firstName != "" {
				req.FirstName = &firstName
			}
			if lastName != "" {
				req.LastName = &lastName
			}

			return createUser(cmd, req, superuser)
		},
	}

	createUserCmd.Flags().String("email", "", "User email (required)")
	createUserCmd.Flags().String("username", "", "Username (required)")
	createUserCmd.Flags().String("password", "", "User password (required)")
	createUserCmd.Flags().String("first-name", "", "User first name")
	createUserCmd.Flags().String("last-name", "", "User last name")
	createUserCmd.Flags().Bool("superuser", false, "Grant the superuser override")

	userCmd.AddCommand(createUserCmd)
	return userCmd
}

func createUser(cmd *cobra.Command, req ports.RegisterRequest, superuser bool) error {
	_, appLogger, db, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer appLogger.Close()
	defer db.Close()

	userService := services.NewUserService(repository.NewUserRepository(db), appLogger)
	user, err := userService.CreateUser(cmd.Context(), req, superuser)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "User created successfully:\n")
	fmt.Fprintf(out, "  ID: %s\n", user.ID)
	fmt.Fprintf(out, "  Email: %s\n", user.Email)
	fmt.Fprintf(out, "  Username: %s\n", user.Username)
	fmt.Fprintf(out, "  Superuser: %t\n", user.IsSuperuser)
	return nil
}
