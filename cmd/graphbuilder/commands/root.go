package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/auftraggeber/WHZ-graph-builder/cmd/graphbuilder/internal/config"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/cli"
)

var (
	// Global flags
	verbose      bool
	outputFormat string
	logLevel     string
	logFormat    string

	// Global configuration (loaded at init time)
	globalConfig *config.Config

	// logger is configured by the root command before any subcommand runs.
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "graphbuilder",
	Short: "Build weighted room graphs for indoor navigation",
	Long: `graphbuilder - edit the room graph of a building complex.

Nodes are rooms identified by an id. Edges connect two nodes with a
positive integer weight. Connecting to an unknown id creates a placeholder
(LazyNode) that is completed later with 'graphbuilder node set'.

The edited graph lives in a workspace database under the config directory
and is exchanged as .grser files, locally or on S3.

Configuration is stored in the OS config directory:
  macOS:   ~/Library/Application Support/graphbuilder/
  Linux:   ~/.config/graphbuilder/
  Windows: %AppData%/graphbuilder/

Examples:
  # Create two rooms and connect them
  graphbuilder node set A101 name="Lecture hall" floor=1
  graphbuilder edge add A101 A102 12

  # Complete the placeholder created by the edge
  graphbuilder node set A102 name=Lab floor=1 accessible=true

  # Save and load the graph
  graphbuilder graph export campus --location s3://maps/whz
  graphbuilder graph import campus.grser`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := cli.ParseFormat(outputFormat); err != nil {
			return err
		}
		l, err := newLogger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	pf.StringVarP(&outputFormat, "output", "o", "table", "output format: yaml, json or table")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (default from config, else warn)")
	pf.StringVar(&logFormat, "log-format", "", "log format: text or json (default from config, else text)")
}

// configLoadErr stores the error from config.Load() for deferred reporting.
var configLoadErr error

func initConfig() {
	globalConfig, configLoadErr = nil, nil
	cfg, err := config.Load()
	if err != nil {
		// Commands that need config get the error from GetConfig, so
		// 'graphbuilder version' still works.
		configLoadErr = err
		return
	}
	globalConfig = cfg
}

// GetConfig returns the global configuration.
func GetConfig() (*config.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

// newLogger builds the slog logger from the flags, falling back to the
// config file.
func newLogger(w io.Writer) (*slog.Logger, error) {
	level, format := logLevel, logFormat
	if cfg, err := GetConfig(); err == nil {
		if level == "" {
			level = cfg.Log.Level
		}
		if format == "" {
			format = cfg.Log.Format
		}
	}

	var lvl slog.Level
	switch {
	case verbose:
		lvl = slog.LevelDebug
	case level == "":
		lvl = slog.LevelWarn
	default:
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
}

// printResult writes result to stdout in the --output format.
func printResult(cmd *cobra.Command, result any) error {
	f, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	return cli.Output(cmd.OutOrStdout(), result, f)
}
