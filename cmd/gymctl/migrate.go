package main

import (
	"fmt"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/database"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate <up|down>",
	Short: "Apply or roll back schema migrations",
	Long: `Run the SQL migrations in the migrations/ directory.

  gymctl migrate up     # apply every pending migration
  gymctl migrate down   # roll every migration back

The directory is located by walking up from the working directory and the
binary location, unless --dir is given.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{database.MigrateUp, database.MigrateDown},
	RunE: func(cmd *cobra.Command, args []string) error {
		direction := args[0]
		if direction != database.MigrateUp && direction != database.MigrateDown {
			return fmt.Errorf("unknown direction %q (use up or down)", direction)
		}
		if err := requireDBURL(); err != nil {
			return err
		}

		dir := migrationsDir
		if dir == "" {
			found, err := database.FindMigrationsDir()
			if err != nil {
				return err
			}
			dir = found
		}

		if err := database.RunMigrations(dbURL, dir, direction); err != nil {
			return err
		}
		color.Green("✓ Migrations %s complete (%s)", direction, dir)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "", "migrations directory")
}
