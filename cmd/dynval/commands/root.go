// Package commands implements the CLI commands for dynval.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/dynval/cmd"
	"github.com/thoreinstein/dynval/cmd/dynval/commands/catalog"
	dvcatalog "github.com/thoreinstein/dynval/internal/catalog"
	"github.com/thoreinstein/dynval/internal/config"
	"github.com/thoreinstein/dynval/internal/errors"
	"github.com/thoreinstein/dynval/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// cfg is the configuration loaded before every command.
var cfg = config.Default()

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

// kinds is the catalog rules are resolved against.
var kinds = dvcatalog.Default()

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./config.yaml, then the user config dir)")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("dynval version {{.Version}}\n")

	catalog.SetCatalog(kinds)
	rootCmd.AddCommand(catalog.Cmd)

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	cfg = config.Default()
	loaded, err := config.LoadWithCatalog(configFile, kinds)
	configLoadErr = err
	if err == nil {
		cfg = loaded
	}
}

var rootCmd = &cobra.Command{
	Use:   "dynval",
	Short: "Validate records against static and per-record rules",
	Long: `dynval validates account records read from YAML, JSON, TOML or Markdown
files.

Every account is checked against the same built-in rules. On top of those,
rules from the config file, the --rule flag, the file itself and each record
are attached to that record only, so two records in one file can be held to
different standards.`,
	Example: `  # Validate a file
  dynval validate people.yaml

  # Add a rule for this run
  dynval validate people.yaml --rule minimum:field=age,minimum=18

  # List the rule kinds
  dynval catalog list

  See Also: dynval catalog, dynval config`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "Pass either -q or -v")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("DYNVAL_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	format := logging.Format(logFormat)
	switch format {
	case logging.FormatText, logging.FormatJSON:
	default:
		return errors.NewUserError(errors.Newf("invalid log format %q", logFormat), "Use --log-format text or json")
	}

	handlers := []slog.Handler{logging.NewFormatHandler(logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, logging.NewFormatHandler(logging.Config{
			Level:  level,
			Format: logging.FormatJSON,
			Output: f,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig reports config load errors for commands that use the config.
func checkConfig(cmd *cobra.Command) error {
	switch cmd.Name() {
	case "help", "version", "path", "init", "edit", "doctor":
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	slog.Debug("loaded config", "file", config.FileUsed(), "rules", len(cfg.Rules))
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// PrintError writes err and any suggestion it carries to w.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", exitErr.Suggestion)
	}
}
