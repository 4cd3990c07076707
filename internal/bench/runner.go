package bench

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/camlabs/cambench/internal/collector"
	"github.com/camlabs/cambench/internal/config"
	"github.com/camlabs/cambench/internal/firmware"
	"github.com/camlabs/cambench/internal/metrics"
	"github.com/camlabs/cambench/internal/transport"
	"github.com/camlabs/cambench/internal/videoio"
)

// ipWaitTimeout bounds how long a freshly flashed board may take to
// join the network and print its address on the boot log.
const ipWaitTimeout = 30 * time.Second

// Flasher uploads a firmware variant to the board on port.
type Flasher interface {
	Flash(ctx context.Context, port string, opts firmware.BuildOptions) error
}

// Device locates the board and reads its network address.
type Device interface {
	FindPort() (string, error)
	WaitForIP(ctx context.Context, port string, timeout time.Duration) (string, error)
}

type RunnerConfig struct {
	Logger *slog.Logger
	Config *config.Config

	Flasher Flasher
	Device  Device

	// GetFrameSource, GetCommandSender and GetSink override the
	// default transport and sink constructors, for testing.
	GetFrameSource   func(proto transport.VideoProtocol) (collector.FrameSource, error)
	GetCommandSender func(proto transport.ControlProtocol, ip string) (collector.CommandSender, error)
	GetSink          func(path string) collector.VideoSink

	// Clock defaults to the real clock.
	Clock clockwork.Clock
}

func (c *RunnerConfig) Validate() error {
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	if c.Config == nil {
		return errors.New("config is required")
	}
	if c.Flasher == nil {
		return errors.New("flasher is required")
	}
	if c.Device == nil {
		return errors.New("device is required")
	}
	return nil
}

// Runner executes benchmark combinations end to end against a live
// board and writes one result record per combination.
type Runner struct {
	log *slog.Logger
	cfg *RunnerConfig
}

func NewRunner(cfg *RunnerConfig) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.GetFrameSource == nil {
		cfg.GetFrameSource = func(proto transport.VideoProtocol) (collector.FrameSource, error) {
			return transport.NewFrameSource(cfg.Logger, proto)
		}
	}
	if cfg.GetCommandSender == nil {
		cfg.GetCommandSender = func(proto transport.ControlProtocol, ip string) (collector.CommandSender, error) {
			return transport.NewCommandSender(cfg.Logger, proto, ip)
		}
	}
	if cfg.GetSink == nil {
		cfg.GetSink = func(path string) collector.VideoSink {
			return videoio.NewMJPEGFileSink(cfg.Logger, path)
		}
	}
	return &Runner{log: cfg.Logger, cfg: cfg}, nil
}

// Result holds the metrics of one combination run.
type Result struct {
	Video   *collector.VideoMetrics   `json:"video,omitempty"`
	Control *collector.ControlMetrics `json:"control,omitempty"`
}

// Outcome pairs a combination with its result or failure, as produced
// by RunAll.
type Outcome struct {
	Params Params  `json:"params"`
	Result *Result `json:"results,omitempty"`
	Err    string  `json:"error,omitempty"`
}

// RunCombination flashes the firmware variant for params (unless
// skipBuild), waits for the board's address, runs the configured
// collectors, and writes the result record.
func (r *Runner) RunCombination(ctx context.Context, params Params, skipBuild bool) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid test parameters: %w", err)
	}
	r.log.Info("Starting test", "params", params.String())

	port, err := r.cfg.Device.FindPort()
	if err != nil {
		return nil, fmt.Errorf("failed to find device: %w", err)
	}

	if !skipBuild {
		opts := firmware.BuildOptions{
			VideoProtocol:   string(params.VideoProtocol),
			ControlProtocol: string(params.ControlProtocol),
			Resolution:      params.Resolution,
			Quality:         params.Quality,
			Metrics:         params.Metrics,
			RawMode:         params.RawMode,
		}
		if err := r.cfg.Flasher.Flash(ctx, port, opts); err != nil {
			metrics.Errors.WithLabelValues(metrics.ErrorTypeFirmwareFlash).Inc()
			return nil, fmt.Errorf("failed to flash firmware: %w", err)
		}
	}

	ip, err := r.cfg.Device.WaitForIP(ctx, port, ipWaitTimeout)
	if err != nil {
		metrics.Errors.WithLabelValues(metrics.ErrorTypeDeviceDiscovery).Inc()
		return nil, fmt.Errorf("failed to get device address: %w", err)
	}
	r.log.Info("Device ready", "ip", ip, "port", port)

	result := &Result{}
	duration := time.Duration(r.cfg.Config.TestDuration) * time.Second

	if params.VideoProtocol != "" {
		video, err := r.runVideo(ctx, params, ip, duration)
		if err != nil {
			return nil, err
		}
		result.Video = video
	}

	if params.ControlProtocol != "" {
		control, err := r.runControl(ctx, params, ip, duration)
		if err != nil {
			return nil, err
		}
		result.Control = control
	}

	if err := r.writeResult(params, result); err != nil {
		metrics.Errors.WithLabelValues(metrics.ErrorTypeResultWrite).Inc()
		return nil, err
	}
	return result, nil
}

// RunAll runs every configured combination, continuing past individual
// failures.
func (r *Runner) RunAll(ctx context.Context) ([]Outcome, error) {
	combos := Combinations(r.cfg.Config.Combinations)
	if len(combos) == 0 {
		return nil, errors.New("no test combinations configured")
	}

	outcomes := make([]Outcome, 0, len(combos))
	for _, params := range combos {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		result, err := r.RunCombination(ctx, params, false)
		if err != nil {
			r.log.Error("Test failed", "params", params.String(), "error", err)
			outcomes = append(outcomes, Outcome{Params: params, Err: err.Error()})
			continue
		}
		outcomes = append(outcomes, Outcome{Params: params, Result: result})
	}
	return outcomes, nil
}

func (r *Runner) runVideo(ctx context.Context, params Params, ip string, duration time.Duration) (*collector.VideoMetrics, error) {
	locator, err := transport.StreamLocator(params.VideoProtocol, ip)
	if err != nil {
		return nil, err
	}
	source, err := r.cfg.GetFrameSource(params.VideoProtocol)
	if err != nil {
		return nil, err
	}
	sinkPath := filepath.Join(r.cfg.Config.ResultsDir, "video", params.FileName(r.cfg.Clock, "video", "mjpeg"))

	vc, err := collector.NewVideoCollector(&collector.VideoConfig{
		Logger:     r.log,
		Source:     source,
		Sink:       r.cfg.GetSink(sinkPath),
		NominalFPS: int(r.cfg.Config.NominalFPS),
		Duration:   duration,
		Clock:      r.cfg.Clock,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build video collector: %w", err)
	}
	return vc.Collect(ctx, locator)
}

func (r *Runner) runControl(ctx context.Context, params Params, ip string, duration time.Duration) (*collector.ControlMetrics, error) {
	sender, err := r.cfg.GetCommandSender(params.ControlProtocol, ip)
	if err != nil {
		return nil, err
	}
	defer sender.Close()

	cc, err := collector.NewControlCollector(&collector.ControlConfig{
		Logger:   r.log,
		Sender:   sender,
		Commands: collector.DefaultCommandCycle(),
		Duration: duration,
		Clock:    r.cfg.Clock,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build control collector: %w", err)
	}
	return cc.Collect(ctx)
}

// writeResult persists the combination's record under
// <results>/metrics as {"parameters": ..., "results": ...}.
func (r *Runner) writeResult(params Params, result *Result) error {
	dir := filepath.Join(r.cfg.Config.ResultsDir, "metrics")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}

	record := struct {
		Parameters Params  `json:"parameters"`
		Results    *Result `json:"results"`
	}{Parameters: params, Results: result}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	path := filepath.Join(dir, params.FileName(r.cfg.Clock, "metrics", "json"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	r.log.Info("Metrics saved", "path", path)
	return nil
}
