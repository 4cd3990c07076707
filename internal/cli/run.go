package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/camlabs/cambench/internal/bench"
	"github.com/camlabs/cambench/internal/config"
	"github.com/camlabs/cambench/internal/device"
	"github.com/camlabs/cambench/internal/firmware"
	"github.com/camlabs/cambench/internal/transport"
)

type RunCmd struct{}

func NewRunCmd() *RunCmd {
	return &RunCmd{}
}

func (c *RunCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single test combination",
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
			if err != nil {
				return fmt.Errorf("failed to get verbose flag: %w", err)
			}
			configPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			videoProtocol, err := cmd.Flags().GetString("video-protocol")
			if err != nil {
				return fmt.Errorf("failed to get video-protocol flag: %w", err)
			}
			controlProtocol, err := cmd.Flags().GetString("control-protocol")
			if err != nil {
				return fmt.Errorf("failed to get control-protocol flag: %w", err)
			}
			resolution, err := cmd.Flags().GetString("resolution")
			if err != nil {
				return fmt.Errorf("failed to get resolution flag: %w", err)
			}
			quality, err := cmd.Flags().GetInt("quality")
			if err != nil {
				return fmt.Errorf("failed to get quality flag: %w", err)
			}
			withMetrics, err := cmd.Flags().GetBool("metrics")
			if err != nil {
				return fmt.Errorf("failed to get metrics flag: %w", err)
			}
			rawMode, err := cmd.Flags().GetBool("raw-mode")
			if err != nil {
				return fmt.Errorf("failed to get raw-mode flag: %w", err)
			}
			duration, err := cmd.Flags().GetInt("duration")
			if err != nil {
				return fmt.Errorf("failed to get duration flag: %w", err)
			}
			skipBuild, err := cmd.Flags().GetBool("skip-build")
			if err != nil {
				return fmt.Errorf("failed to get skip-build flag: %w", err)
			}

			log := newLogger(verbose)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if duration > 0 {
				cfg.TestDuration = duration
			}

			params := bench.Params{
				VideoProtocol:   transport.VideoProtocol(videoProtocol),
				ControlProtocol: transport.ControlProtocol(controlProtocol),
				Resolution:      resolution,
				Quality:         quality,
				Metrics:         withMetrics,
				RawMode:         rawMode,
			}
			if err := params.Validate(); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			runner, err := newRunner(log, cfg)
			if err != nil {
				return err
			}

			result, err := runner.RunCombination(ctx, params, skipBuild)
			if err != nil {
				return err
			}

			printResult(params, result)
			return nil
		},
	}

	cmd.Flags().String("video-protocol", "", "video protocol to test (HTTP, RTSP, UDP, WebRTC)")
	cmd.Flags().String("control-protocol", "", "control protocol to test (HTTP, UDP, WebSocket)")
	cmd.Flags().String("resolution", "", "camera resolution (QQVGA..UXGA)")
	cmd.Flags().Int("quality", 0, "JPEG quality (3-61)")
	cmd.Flags().Bool("metrics", false, "build firmware with on-device metrics")
	cmd.Flags().Bool("raw-mode", false, "build firmware with raw framing")
	cmd.Flags().Int("duration", 0, "override test duration in seconds")
	cmd.Flags().Bool("skip-build", false, "skip firmware build and flash")

	return cmd
}

func newRunner(log *slog.Logger, cfg *config.Config) (*bench.Runner, error) {
	return bench.NewRunner(&bench.RunnerConfig{
		Logger:  log,
		Config:  cfg,
		Flasher: firmware.NewFlasher(log, ""),
		Device:  &serialDevice{log: log},
	})
}

// serialDevice adapts the device package to the runner's interface.
type serialDevice struct {
	log *slog.Logger
}

func (d *serialDevice) FindPort() (string, error) {
	return device.FindPort(d.log)
}

func (d *serialDevice) WaitForIP(ctx context.Context, port string, timeout time.Duration) (string, error) {
	return device.WaitForIP(ctx, d.log, port, timeout)
}
