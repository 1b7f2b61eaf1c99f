package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/basketsplit/basketsplit/internal/infrastructure/config"
	"github.com/basketsplit/basketsplit/internal/infrastructure/logging"
	"github.com/basketsplit/basketsplit/internal/receipt"
	"github.com/basketsplit/basketsplit/internal/receipt/sainsburys"
)

// cfgFile holds the path to the config file, overridable with --config.
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "basketsplit",
	Short: "Split shared grocery delivery receipts",
	Long: `basketsplit parses grocery delivery receipt PDFs into per-unit line
items so a household can mark who consumed what and split the cost.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "path to config file")
}

// loadConfig reads the config file or falls back to environment variables.
func loadConfig() *config.Config {
	return config.LoadOrEnvWithPath(cfgFile)
}

// newRegistry builds the parser registry with all known retailers.
func newRegistry(logger *slog.Logger) *receipt.Registry {
	registry := receipt.NewRegistry(logger)
	if err := registry.Register(sainsburys.New()); err != nil {
		logger.Error("failed to register parser", slog.String("error", err.Error()))
	}
	return registry
}

// newLogger builds the process logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	return logging.NewLogger(cfg.Observability.Logging)
}
