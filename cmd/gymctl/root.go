package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var dbURL string

var rootCmd = &cobra.Command{
	Use:   "gymctl",
	Short: "Operator tooling for the gym backend",
	Long: `gymctl runs maintenance tasks against the gym database.

COMMANDS:

  migrate up|down            Apply or roll back schema migrations
  seed admin                 Create the first admin account
  export routine <id>        Print a routine with its exercises and sets

The database is taken from --db-url or DB_URL (a .env file is read when present).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found")
		}
		if dbURL == "" {
			dbURL = strings.TrimSpace(os.Getenv("DB_URL"))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "postgres connection string (defaults to DB_URL)")
	rootCmd.AddCommand(migrateCmd, seedCmd, exportCmd)
}

func requireDBURL() error {
	if dbURL == "" {
		return fmt.Errorf("DB_URL environment variable is required")
	}
	return nil
}

// openPool connects the shared pool; callers must defer database.CloseDB.
func openPool() (*pgxpool.Pool, error) {
	if err := requireDBURL(); err != nil {
		return nil, err
	}
	if err := database.ConnectDB(dbURL); err != nil {
		return nil, err
	}
	return database.DB, nil
}
