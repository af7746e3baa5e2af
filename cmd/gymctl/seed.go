package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/database"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/models"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/repository"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/services"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	seedEmail     string
	seedPassword  string
	seedFirstName string
	seedLastName  string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert bootstrap data",
}

var seedAdminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Create the first admin account",
	Long: `Create an admin account so staff screens can be reached.

Email and password default to DEFAULT_ADMIN_EMAIL and DEFAULT_ADMIN_PASSWORD.
An existing account with the same email is left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email := firstNonEmpty(seedEmail, os.Getenv("DEFAULT_ADMIN_EMAIL"))
		password := firstNonEmpty(seedPassword, os.Getenv("DEFAULT_ADMIN_PASSWORD"))
		if email == "" || password == "" {
			return fmt.Errorf("admin email and password are required (flags or DEFAULT_ADMIN_EMAIL/DEFAULT_ADMIN_PASSWORD)")
		}

		pool, err := openPool()
		if err != nil {
			return err
		}
		defer database.CloseDB()

		users := services.NewUserService(
			pool,
			repository.NewProfileRepository(pool),
			repository.NewRefreshTokenRepository(pool),
			repository.NewAssignmentRepository(pool),
			repository.NewRoutineRepository(pool),
			repository.NewMeasurementRepository(pool),
		)

		profile, err := users.CreateUser(cmd.Context(), services.CreateUserInput{
			Email:     email,
			Password:  password,
			Role:      models.RoleAdmin,
			FirstName: seedFirstName,
			LastName:  seedLastName,
		})
		switch {
		case errors.Is(err, services.ErrConflict):
			color.Yellow("Admin %s already exists, nothing to do", strings.ToLower(email))
			return nil
		case errors.Is(err, services.ErrInvalidInput):
			return fmt.Errorf("invalid admin credentials: email must be valid and password at least 8 characters")
		case err != nil:
			return fmt.Errorf("create admin: %w", err)
		}

		color.Green("✓ Created admin %s (user #%d)", email, profile.UserID)
		return nil
	},
}

func init() {
	seedAdminCmd.Flags().StringVar(&seedEmail, "email", "", "admin email")
	seedAdminCmd.Flags().StringVar(&seedPassword, "password", "", "admin password")
	seedAdminCmd.Flags().StringVar(&seedFirstName, "first-name", "Admin", "admin first name")
	seedAdminCmd.Flags().StringVar(&seedLastName, "last-name", "", "admin last name")
	seedCmd.AddCommand(seedAdminCmd)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
