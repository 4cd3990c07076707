// Package cli implements the cambench command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/camlabs/cambench/internal/metrics"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

// Build information, set via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func Run() ExitCode {
	rootCmd := &cobra.Command{
		Use:   "cambench",
		Short: "Benchmark runner for camera firmware video and control latency.",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := cmd.Help()
			if err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "set debug logging level")

	var configPath string
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "bench_config.yml", "path to the benchmark config file")

	rootCmd.AddCommand(
		NewRunCmd().Command(),
		NewSweepCmd().Command(),
	)

	metrics.BuildInfo.WithLabelValues(Version, Commit, Date).Set(1)

	if err := rootCmd.Execute(); err != nil {
		return exitCodeError
	}

	return exitCodeSuccess
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}
