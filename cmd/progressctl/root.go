package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/2beens/gymprogress/internal"
	"github.com/2beens/gymprogress/internal/config"
	"github.com/2beens/gymprogress/internal/progress"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

type cliOptions struct {
	env        string
	configPath string
	dbPath     string
	userID     int
	offline    bool
	jsonOutput bool
	noColor    bool
	verbose    bool

	backend *internal.Backend
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:   "progressctl",
		Short: "Exercise progress from the terminal",
		Long: `progressctl answers exercise progress queries the same way the service does:
fresh cache first, then the remote analytics service, then a derivation from
the local workout log.

EXAMPLES:

  progressctl progress --user 1 --limit 5
  progressctl records --user 1 --exercise "Bench Press"
  progressctl stats --user 1 --offline
  progressctl import workouts.json --user 1`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.backend != nil {
				return opts.backend.Close()
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.env, "env", "development", "config environment [dev | development | prod | production | ddev | dockerdev]")
	flags.StringVar(&opts.configPath, "config", "./config.toml", "path for the TOML config file")
	flags.StringVar(&opts.dbPath, "db", "", "sqlite workout log path, overrides the config")
	flags.IntVarP(&opts.userID, "user", "u", 1, "user id")
	flags.BoolVar(&opts.offline, "offline", false, "never call the remote analytics service")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print raw JSON")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	rootCmd.AddCommand(
		newProgressCmd(opts),
		newRecordsCmd(opts),
		newStatsCmd(opts),
		newImportCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

func (o *cliOptions) setup(cmd *cobra.Command) error {
	log.SetOutput(cmd.ErrOrStderr())
	log.SetLevel(log.WarnLevel)
	if o.verbose {
		log.SetLevel(log.DebugLevel)
	}
	if o.noColor {
		color.NoColor = true
	}
	if o.userID <= 0 {
		return fmt.Errorf("invalid user id %d: must be a positive integer", o.userID)
	}

	cfg, err := config.Load(o.env, o.configPath)
	if err != nil {
		return err
	}
	if o.dbPath != "" {
		cfg.StoreDriver = "sqlite"
		cfg.SQLitePath = o.dbPath
	}
	// a terminal run has no redis, keep the durable cache next to the log
	if cfg.CacheStore == "redis" {
		cfg.CacheStore = "sqlite"
	}
	o.cfg = cfg

	o.backend, err = internal.NewBackend(cmd.Context(), internal.BackendParams{
		Config:  cfg,
		Offline: o.offline,
	})
	if err != nil {
		return fmt.Errorf("set up backend: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the progressctl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "progressctl", version)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// printSource reports where the answer came from, on stderr so JSON output stays clean.
func printSource(w io.Writer, outcome progress.Outcome) {
	faint := color.New(color.Faint)
	switch outcome.Source {
	case progress.SourceFailed:
		color.New(color.FgRed).Fprintf(w, "source: %s (%v)\n", outcome.Source, outcome.Err)
	case progress.SourceLocal:
		if outcome.Err != nil && !errors.Is(outcome.Err, progress.ErrRemoteDisabled) {
			color.New(color.FgYellow).Fprintf(w, "source: %s, remote failed: %v\n", outcome.Source, outcome.Err)
			return
		}
		faint.Fprintf(w, "source: %s\n", outcome.Source)
	default:
		faint.Fprintf(w, "source: %s\n", outcome.Source)
	}
}
