// Package cmd implements the callboard CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"callboard/internal/auth"
	"callboard/internal/clierr"
	"callboard/internal/config"
	"callboard/internal/logging"
	"callboard/internal/output"
	"callboard/internal/sheets"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "callboard",
	Short: "Production task board backed by a Google spreadsheet",
	Long: `callboard is a task dashboard for a stage production team. Tasks live in
a Google spreadsheet, one tab of sub-tasks per task. Run callboard with no
arguments to open the interactive board.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().StringVar(&flagDir, "config-dir", "", "path to the config directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "write debug logs to the log file")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	// Handle SilentError — exit with code, no output.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	jsonMode := flagJSON
	if !jsonMode {
		jsonMode = os.Getenv("CALLBOARD_OUTPUT") == "json"
	}

	if jsonMode {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, err)
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		for i, step := range authErr.Remediation() {
			fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, step)
		}
	}
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// loadConfig loads the config from --config-dir or the default directory,
// creating the directory when missing.
func loadConfig() (*config.Config, error) {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir()
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, clierr.Newf(clierr.InternalError, "loading config from %s: %v", dir, err)
	}
	if err := cfg.EnsureDir(); err != nil {
		return nil, clierr.Newf(clierr.InternalError, "creating config directory %s: %v", dir, err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(cfg.LogPath(), flagDebug)
}

// requireSession returns a signed-in session or an AUTH_REQUIRED error.
func requireSession(cfg *config.Config) (*auth.Session, error) {
	session := auth.NewSession(cfg)
	if session.Initialize() != auth.StateSignedIn {
		return nil, clierr.New(clierr.AuthRequired, "not signed in; run `callboard login` first")
	}
	return session, nil
}

// requireGateway builds a spreadsheet gateway for CLI commands that talk to
// the sheet directly.
func requireGateway(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sheets.Gateway, error) {
	session, err := requireSession(cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.HasSpreadsheet() {
		return nil, clierr.New(clierr.SetupRequired, "no spreadsheet configured; run `callboard setup <spreadsheet-id>`")
	}
	ts, err := session.TokenSource(ctx)
	if err != nil {
		return nil, clierr.Newf(clierr.AuthFailed, "building API credentials: %v", err)
	}
	gw, err := sheets.New(ctx, ts, cfg.SpreadsheetID, logger)
	if err != nil {
		return nil, clierr.Newf(clierr.SheetError, "connecting to the spreadsheet: %v", err)
	}
	return gw, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}
