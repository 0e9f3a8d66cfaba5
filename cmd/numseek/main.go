// Package main provides the numseek command: it enumerates candidate number
// strings from a digit-pattern template, drives a remote browser profile
// through a voice-service signup page for each one, and records what it
// finds, resuming from persisted progress across runs.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/entrhq/numseek/pkg/browser"
	"github.com/entrhq/numseek/pkg/config"
	"github.com/entrhq/numseek/pkg/logging"
	"github.com/entrhq/numseek/pkg/pattern"
	"github.com/entrhq/numseek/pkg/progress"
	"github.com/entrhq/numseek/pkg/search"
)

// The live browser session must satisfy the driver's automation surface.
var _ search.Automator = (*browser.Session)(nil)

// connectTimeout bounds profile resolution and browser startup, not
// individual candidate attempts.
const connectTimeout = 2 * time.Minute

var (
	configPath  string
	excludeFour bool
)

var rootCmd = &cobra.Command{
	Use:   "numseek <profile>",
	Short: "Hunt for available numbers matching a digit pattern",
	Long: `numseek searches a voice-service signup page for available phone numbers.

Candidates come from a digit-pattern template: literal digits pass through,
and the markers a-d each bind to one digit, distinct across markers. The
positional argument selects which browser profile of the local profile
daemon to drive; it may be a profile ID, a serial number, or a 1-based list
position. Progress persists per configuration, so an interrupted search
picks up where it stopped.`,
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "numseek.yaml", "path to the configuration file")
	rootCmd.Flags().BoolVar(&excludeFour, "exclude-four", false, "never bind digit 4 to a variable marker")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "numseek: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Arguments are valid past this point; don't dump usage on run failures.
	cmd.SilenceUsage = true

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("exclude-four") {
		cfg.ExcludeFour = excludeFour
	}

	tmpl, err := pattern.Parse(cfg.Template)
	if err != nil {
		return err
	}
	universe := tmpl.Enumerate(cfg.ExcludeFour)

	key := progress.ConfigKey(tmpl.String(), cfg.ExcludeFour)
	store, err := progress.NewStore(cfg.StateDir, key)
	if err != nil {
		return err
	}
	tracker, err := progress.NewTracker(store)
	if err != nil {
		return err
	}

	fmt.Printf("template %s (exclude 4: %v): %d candidates, %d already searched\n",
		tmpl, cfg.ExcludeFour, len(universe), tracker.SearchedCount())

	logger, logErr := logging.NewLogger(cfg.LogDir, "numseek")
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging unavailable: %v\n", logErr)
	}
	defer logger.Close()
	logger.Infof("run %s: profile %s, configKey %s, %d candidates",
		logging.RunID(), args[0], key, len(universe))

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	daemon := browser.NewDaemonClient(cfg.Daemon.BaseURL, cfg.Daemon.MinInterval.Std())
	session, err := browser.Connect(ctx, daemon, args[0])
	if err != nil {
		return fmt.Errorf("failed to connect to browser profile %s: %w", args[0], err)
	}
	defer session.Close()
	logger.Infof("attached to profile %s", session.ProfileID)

	results, err := logging.OpenResultLog(cfg.ResultsLog)
	if err != nil {
		return err
	}
	defer results.Close()

	driver := search.NewDriver(search.Config{
		TargetURL:       cfg.Search.URL,
		SearchBoxName:   cfg.Search.SearchBoxName,
		NoResultsMarker: cfg.Search.NoResultsMarker,
		TypingDelay:     cfg.Search.TypingDelay.Std(),
		SettleWait:      cfg.Search.SettleWait.Std(),
		ShotsDir:        cfg.ShotsDir,
	}, session, tracker, results, logger)

	return driver.Run(universe)
}
