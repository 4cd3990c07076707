package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/camlabs/cambench/internal/config"
	"github.com/camlabs/cambench/internal/metrics"
)

type SweepCmd struct{}

func NewSweepCmd() *SweepCmd {
	return &SweepCmd{}
}

func (c *SweepCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run every test combination from the config",
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
			if err != nil {
				return fmt.Errorf("failed to get verbose flag: %w", err)
			}
			configPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			noMetricsServer, err := cmd.Flags().GetBool("no-metrics-server")
			if err != nil {
				return fmt.Errorf("failed to get no-metrics-server flag: %w", err)
			}

			log := newLogger(verbose)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if !noMetricsServer {
				go func() {
					if err := metrics.Serve(ctx, log, cfg.MetricsAddr); err != nil {
						log.Error("Metrics server failed", "error", err)
					}
				}()
			}

			runner, err := newRunner(log, cfg)
			if err != nil {
				return err
			}

			outcomes, err := runner.RunAll(ctx)
			if err != nil {
				return err
			}

			printSweepSummary(outcomes)
			return nil
		},
	}

	cmd.Flags().Bool("no-metrics-server", false, "do not expose prometheus metrics during the sweep")

	return cmd
}
