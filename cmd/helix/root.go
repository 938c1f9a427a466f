package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/helix-lang/helix/core/config"
)

// debugEnv turns on debug logging without a flag, for wrappers and CI.
const debugEnv = "HELIX_DEBUG_LEXER"

// app carries state shared by all subcommands. It is filled in by the root
// command's PersistentPreRunE once flags are parsed.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	// persistent flags
	configPath string
	debug      bool
	logFile    string
	noColor    bool

	cfg     config.Config
	logger  *slog.Logger
	closers []func() error
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c()
	}
	a.closers = nil
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "helix",
		Short: "Helix language front end tools",
		Long: `helix scans Helix source files.

Configuration is read from helix.toml in the working directory, then from the
file named by $HELIX_CONFIG, then from --config. Command-line flags override
all of them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Additional configuration file applied last")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (also $"+debugEnv+")")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Also write JSON logs to this file")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newLexCmd(a),
		newCheckCmd(a),
		newKeywordsCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}

// setup loads configuration and builds the logger.
func (a *app) setup() error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Load(wd)
	if err != nil {
		return err
	}
	if a.configPath != "" {
		if err := cfg.ApplyFile(a.configPath); err != nil {
			return err
		}
	}
	a.cfg = cfg

	debug := a.debug || os.Getenv(debugEnv) != ""
	logger, closeLog, err := newLogger(a.stderr, debug, a.logFile)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	a.logger = logger
	a.closers = append(a.closers, closeLog)

	a.logger.Debug("configuration loaded",
		"project", cfg.Core.Name,
		"format", cfg.Output.Format,
		"telemetry", cfg.Lexer.Telemetry,
		"jobs", cfg.Batch.Jobs)
	return nil
}

// exitError ends the process with code without printing anything; the
// command has already reported what went wrong.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
