package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/2beens/gymprogress/internal/progress"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newProgressCmd(opts *cliOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "progress",
		Aliases: []string{"p"},
		Short:   "Per exercise progress, most performed first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("invalid limit %d", limit)
			}
			progressList, outcome := opts.backend.Service.GetExerciseProgressWithOutcome(cmd.Context(), opts.userID, limit)
			printSource(cmd.ErrOrStderr(), outcome)
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), progressList)
			}
			printProgress(cmd.OutOrStdout(), progressList)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", progress.DefaultLimit, "max number of exercises")
	return cmd
}

func newRecordsCmd(opts *cliOptions) *cobra.Command {
	var exercise string
	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"pr"},
		Short:   "Personal records, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, outcome := opts.backend.Service.GetPersonalRecordsWithOutcome(cmd.Context(), opts.userID, exercise)
			printSource(cmd.ErrOrStderr(), outcome)
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			printRecords(cmd.OutOrStdout(), records)
			return nil
		},
	}
	cmd.Flags().StringVarP(&exercise, "exercise", "e", "", "exact exercise name to filter by")
	return cmd
}

func newStatsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Aggregate training stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, outcome := opts.backend.Service.GetExerciseStatsWithOutcome(cmd.Context(), opts.userID)
			printSource(cmd.ErrOrStderr(), outcome)
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

var trendColors = map[progress.Trend]*color.Color{
	progress.TrendImproving: color.New(color.FgGreen),
	progress.TrendStable:    color.New(color.FgCyan),
	progress.TrendDeclining: color.New(color.FgRed),
	progress.TrendNew:       color.New(color.FgMagenta),
}

func printProgress(w io.Writer, progressList []progress.ExerciseProgress) {
	if len(progressList) == 0 {
		fmt.Fprintln(w, "No exercises found.")
		return
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	for _, p := range progressList {
		trend := string(p.ProgressionTrend)
		if c, ok := trendColors[p.ProgressionTrend]; ok {
			trend = c.Sprint(trend)
		}
		fmt.Fprintf(w, "%s %s  %d sessions  %s\n",
			bold.Sprint(padRight(p.ExerciseName, 24)),
			faint.Sprint(padRight(string(p.ExerciseType), 12)),
			p.TotalWorkouts,
			trend,
		)
		fmt.Fprintf(w, "  %s  best: %s  avg: %s\n",
			faint.Sprintf("%s .. %s", p.FirstPerformed, p.LastPerformed),
			formatSummary(p.BestPerformance),
			formatSummary(p.AveragePerformance),
		)
	}
}

func printRecords(w io.Writer, records []progress.PersonalRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No personal records found.")
		return
	}

	faint := color.New(color.Faint)
	for _, r := range records {
		fmt.Fprintf(w, "%s %s %s %s\n",
			faint.Sprint(r.AchievedDate),
			padRight(r.ExerciseName, 24),
			padRight(string(r.RecordType), 14),
			color.New(color.Bold).Sprintf("%s %s", formatFloat(r.RecordValue), r.RecordUnit),
		)
	}
}

func printStats(w io.Writer, stats progress.ExerciseStats) {
	rows := [][2]string{
		{"workouts", strconv.Itoa(stats.TotalWorkouts)},
		{"exercises", strconv.Itoa(stats.TotalExercises)},
		{"most frequent", stats.MostFrequentExercise},
		{"favorite type", stats.FavoriteExerciseType},
		{"longest streak", fmt.Sprintf("%d days", stats.LongestStreak)},
		{"current streak", fmt.Sprintf("%d days", stats.CurrentStreak)},
		{"weight lifted", formatFloat(stats.TotalWeightLifted) + " kg"},
		{"distance", formatFloat(stats.TotalDistanceCovered) + " km"},
		{"duration", formatFloat(stats.TotalDuration) + " min"},
	}
	faint := color.New(color.Faint)
	for _, row := range rows {
		fmt.Fprintf(w, "%s %s\n", faint.Sprint(padRight(row[0], 16)), row[1])
	}
}

func formatSummary(s progress.PerformanceSummary) string {
	var parts []string
	if s.Weight != nil {
		parts = append(parts, formatFloat(*s.Weight)+"kg")
	}
	if s.Reps != nil {
		parts = append(parts, formatFloat(*s.Reps)+" reps")
	}
	if s.Duration != nil {
		parts = append(parts, formatFloat(*s.Duration)+"min")
	}
	if s.Distance != nil {
		parts = append(parts, formatFloat(*s.Distance)+"km")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
