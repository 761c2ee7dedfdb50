// Package cmd implements the custform CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/theirongolddev/custform/internal/config"
	"github.com/theirongolddev/custform/internal/customer"

	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagDebounce int
	flagLogLevel string
	flagTheme    string
)

var rootCmd = &cobra.Command{
	Use:           "custform",
	Short:         "Customer entry form",
	Long:          "Fill in a customer record with live validation, or check a saved record from the command line.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, ErrInvalid) {
			fmt.Fprintf(os.Stderr, "  Error: %s\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the literal: runTUI reaches rootCmd
	// through loadSettings, which would be an initialization cycle.
	rootCmd.RunE = runTUI
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().IntVar(&flagDebounce, "debounce", 0, "Email check delay in milliseconds (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "", "Color theme")
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.Path()
}

// loadSettings is the shared config path used by all commands: file,
// then environment, then flags.
func loadSettings() (config.Config, error) {
	cfg, err := config.LoadFrom(configPath())
	if err != nil {
		return cfg, err
	}

	flags := rootCmd.PersistentFlags()
	if flags.Changed("debounce") {
		cfg.Form.DebounceMS = flagDebounce
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagTheme != "" {
		cfg.Appearance.Theme = flagTheme
	}
	return cfg, nil
}

// formOptions maps settings onto the customer form.
func formOptions(cfg config.Config, log *slog.Logger) customer.Options {
	opts := customer.DefaultOptions()
	opts.Debounce = cfg.Debounce()
	opts.RatingMin = cfg.Form.RatingMin
	opts.RatingMax = cfg.Form.RatingMax
	opts.Messages = customer.DefaultMessages().With(cfg.Messages)
	opts.Logger = log
	return opts
}
