package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/2beens/gymprogress/internal/workouts"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var errImportNeedsSQLite = errors.New("import writes to the local sqlite workout log, use --db or a sqlite store_driver")

func newImportCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import workouts from a JSON file into the local log",
		Long: `Import a JSON array of workouts into the local sqlite workout log:

  [
    {"date": "2024-03-01", "name": "Leg day", "exercises": [
      {"name": "Squat", "weight": 100, "reps": 5}
    ]}
  ]

Workouts without a userId are assigned to --user. Missing ids are generated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfg.StoreDriver != "sqlite" || opts.backend.SQLite == nil {
				return errImportNeedsSQLite
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			var list []workouts.Workout
			if err := json.Unmarshal(raw, &list); err != nil {
				return fmt.Errorf("parse import file: %w", err)
			}

			for i := range list {
				w := &list[i]
				if w.UserID == 0 {
					w.UserID = opts.userID
				}
				if err := opts.backend.SQLite.AddWorkout(cmd.Context(), w); err != nil {
					return fmt.Errorf("import workout #%d (%s): %w", i+1, w.Date, err)
				}
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "imported %d workouts\n", len(list))
			return nil
		},
	}
}
