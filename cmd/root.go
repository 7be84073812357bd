package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HaiFongPan/fsb-cli/internal/config"
	"github.com/HaiFongPan/fsb-cli/internal/metrics"
)

var (
	cfgFile      string
	serverURL    string
	verbose      bool
	quiet        bool
	globalConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fsb-cli [path]",
	Short: "A terminal client for the file server",
	Long: `FSB-CLI browses and manages files on a file server from the terminal.
Without a subcommand it opens the interactive file browser; the subcommands
cover the same operations for scripts.

Configuration comes from a TOML file, FSBCLI_* environment variables and flags.

Example usage:
  fsb-cli                       # Interactive file browser at /
  fsb-cli /docs/                # Interactive file browser at /docs/
  fsb-cli login
  fsb-cli ls /docs/
  fsb-cli upload report.pdf -d /docs/
  fsb-cli get /docs/report.pdf
  fsb-cli users --interactive`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		start := "/"
		if len(args) > 0 {
			start = args[0]
		}
		return runBrowser(cmd.Context(), start)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if globalConfig == nil {
			return
		}
		if err := metrics.WriteTextfile(globalConfig.Metrics.Textfile); err != nil {
			logrus.WithError(err).Warn("failed to write metrics textfile")
		}
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ~/.fsb-cli/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "server base url (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "enable quiet mode")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	var err error
	globalConfig, err = config.Load(cfgFile, config.WithBaseURL(serverURL))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	setupLogging()
	return nil
}

// setupLogging configures the global logger based on config and flags
func setupLogging() {
	level := globalConfig.Log.Level
	if verbose {
		level = "debug"
	} else if quiet {
		level = "error"
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Invalid log level %s, using info", level)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	// Logs go to a file so they never draw over the TUI
	logFile := globalConfig.Log.File
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		logrus.Warnf("Failed to create log directory for %s: %v", logFile, err)
	} else {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logrus.Warnf("Failed to open log file %s: %v", logFile, err)
		} else {
			logrus.SetOutput(file)
		}
	}

	if globalConfig.Log.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: quiet,
			FullTimestamp:    verbose,
		})
	}
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return globalConfig
}
