package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/database"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/repository"
	"github.com/Diegocarque12/cumbaGymApp-sub000/internal/services"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored data",
}

var exportRoutineCmd = &cobra.Command{
	Use:   "routine <id>",
	Short: "Print a routine with its exercises and sets",
	Long: `Export one routine composition.

EXAMPLES:

  gymctl export routine 4                      # JSON to stdout
  gymctl export routine 4 --format yaml        # YAML to stdout
  gymctl export routine 4 -o leg-day.yaml -f yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		routineID, err := parseRoutineID(args[0])
		if err != nil {
			return err
		}

		pool, err := openPool()
		if err != nil {
			return err
		}
		defer database.CloseDB()

		routines := services.NewRoutineService(
			pool,
			repository.NewRoutineRepository(pool),
			repository.NewRoutineExerciseRepository(pool),
			repository.NewExerciseRepository(pool),
			repository.NewSetRepository(pool),
			repository.NewAssignmentRepository(pool),
			repository.NewProfileRepository(pool),
		)

		detail, err := routines.LoadRoutineDetail(cmd.Context(), routineID)
		if errors.Is(err, services.ErrNotFound) {
			return fmt.Errorf("routine %d not found", routineID)
		}
		if err != nil {
			return fmt.Errorf("load routine: %w", err)
		}

		data, err := services.EncodeRoutineExport(services.BuildRoutineExport(detail, time.Now()), exportFormat)
		if err != nil {
			return err
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported routine %q to %s", detail.Name, exportOutput)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	exportRoutineCmd.Flags().StringVarP(&exportFormat, "format", "f", services.ExportFormatJSON, "output format (json or yaml)")
	exportRoutineCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	exportCmd.AddCommand(exportRoutineCmd)
}

func parseRoutineID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid routine id %q", raw)
	}
	return id, nil
}
