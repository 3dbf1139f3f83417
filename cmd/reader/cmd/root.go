package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-reader-backend/internal/config"
	"github.com/tbourn/go-reader-backend/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X .../cmd.version=...".
var version = "dev"

var (
	envFile  string
	logLevel string

	// cfg is loaded once per invocation by setup.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "reader",
	Short: "Essay reader backend",
	Long: "Serves essays over HTTP with full-text search and shareable anchors,\n" +
		"and runs the same search and anchor resolution from the command line.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment from this file (default .env when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(anchorCmd)
	rootCmd.AddCommand(statsCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	if err := loadEnv(envFile); err != nil {
		return err
	}
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.LogLevel = sysutil.FirstNonEmpty(logLevel, c.LogLevel)
	cfg = c
	sysutil.SetupLogging(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogPretty)
	return nil
}

// loadEnv adds KEY=VALUE pairs from path to the environment without
// overriding variables that are already set. A missing default .env is
// not an error.
func loadEnv(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
