package collector

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/camlabs/cambench/internal/metrics"
)

type ControlConfig struct {
	Logger *slog.Logger

	// Sender dispatches commands over the selected control transport.
	Sender CommandSender

	// Commands is the fixed ordered cycle to repeat until the time
	// budget expires.
	Commands []Command

	// Duration is the requested test duration.
	Duration time.Duration

	// Clock is the time source for the dispatch loop. Defaults to the
	// real clock.
	Clock clockwork.Clock
}

func (c *ControlConfig) Validate() error {
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	if c.Sender == nil {
		return errors.New("command sender is required")
	}
	if len(c.Commands) == 0 {
		return errors.New("command cycle must not be empty")
	}
	if c.Duration < time.Second {
		return errors.New("duration must be at least 1 second")
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return nil
}

// ControlCollector repeats a fixed command cycle for the requested
// duration, measuring per-command round-trip latency. One failed
// command never aborts the test.
type ControlCollector struct {
	log *slog.Logger
	cfg *ControlConfig
}

func NewControlCollector(cfg *ControlConfig) (*ControlCollector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ControlCollector{log: cfg.Logger, cfg: cfg}, nil
}

func (c *ControlCollector) Collect(ctx context.Context) (*ControlMetrics, error) {
	clock := c.cfg.Clock

	c.log.Info("Starting control test",
		"commands", len(c.cfg.Commands),
		"duration", c.cfg.Duration,
	)

	session := newSession(clock)
	errs := make([]string, 0)

loop:
	for session.elapsed() < c.cfg.Duration {
		for _, cmd := range c.cfg.Commands {
			if session.elapsed() >= c.cfg.Duration {
				break loop
			}

			rtt, err := c.cfg.Sender.Send(ctx, cmd)
			elapsed := session.elapsed()
			if err != nil {
				if ctx.Err() != nil {
					c.log.Warn("Control test interrupted", "elapsed", elapsed)
					break loop
				}
				sampleErr := NewSampleError("send_command", cmd.String(), err)
				errs = append(errs, sampleErr.Error())
				session.recordFailure(elapsed)
				metrics.CommandErrors.Inc()
				c.log.Debug("Control command failed", "command", cmd, "error", err)
				continue
			}

			latencyMs := float64(rtt) / float64(time.Millisecond)
			session.recordSuccess(elapsed, latencyMs)
			metrics.CommandsSent.Inc()

			if session.successes%10 == 0 {
				c.log.Debug("Control progress",
					"sent", session.successes,
					"latencyMs", latencyMs,
				)
			}
		}
	}

	return c.finalize(session, errs), nil
}

func (c *ControlCollector) finalize(session *metricsSession, errs []string) *ControlMetrics {
	requestedSeconds := int(c.cfg.Duration / time.Second)
	buckets := session.tally.Analyzed(requestedSeconds)
	degraded := len(buckets) != requestedSeconds
	if degraded {
		c.log.Warn("Analyzed window is missing seconds",
			"requested", requestedSeconds,
			"analyzed", len(buckets),
		)
	}

	perSecond := make([]CommandSecond, 0, len(buckets))
	for _, b := range buckets {
		perSecond = append(perSecond, CommandSecond{
			Second:   b.Second,
			Commands: b.Count,
			Errors:   b.ErrorCount,
		})
	}

	latencies := append([]float64(nil), session.samples...)

	record := &ControlMetrics{
		LatencyMs:         latencies,
		SuccessRate:       session.successRate(),
		Errors:            errs,
		CommandsPerSecond: perSecond,
		LatencyStats:      latencyStats(latencies),
		DegradedWindow:    degraded,
	}

	c.log.Info("Control test completed",
		"successes", session.successes,
		"failures", session.failures,
		"successRate", record.SuccessRate,
		"avgLatencyMs", record.LatencyStats.AvgMs,
		"analyzedSeconds", len(buckets),
	)

	return record
}
