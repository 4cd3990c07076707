package collector

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/camlabs/cambench/internal/metrics"
	"github.com/camlabs/cambench/internal/stats"
)

// boundaryPadding is how long a capture loop runs past the requested
// duration. Wall-clock loops cannot align to one-second boundaries, so
// the partial first and last seconds are captured but excluded from the
// analyzed window.
const boundaryPadding = 2 * time.Second

type VideoConfig struct {
	Logger *slog.Logger

	// Source is the unopened frame source for the stream locator
	// passed to Collect.
	Source FrameSource

	// Sink receives the stretched output sequence.
	Sink VideoSink

	// NominalFPS is the fixed rate the output sequence advances at.
	NominalFPS int

	// Duration is the requested (analyzed) test duration.
	Duration time.Duration

	// Clock is the time source for the capture loop. Defaults to the
	// real clock.
	Clock clockwork.Clock
}

func (c *VideoConfig) Validate() error {
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	if c.Source == nil {
		return errors.New("frame source is required")
	}
	if c.Sink == nil {
		return errors.New("video sink is required")
	}
	if c.NominalFPS <= 0 {
		return errors.New("nominal fps must be greater than 0")
	}
	if c.Duration < time.Second {
		return errors.New("duration must be at least 1 second")
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return nil
}

// VideoCollector drives one frame-acquisition run and produces a
// VideoMetrics record. Single run per Collect call, single-threaded:
// one blocking loop on the calling goroutine.
type VideoCollector struct {
	log *slog.Logger
	cfg *VideoConfig
}

func NewVideoCollector(cfg *VideoConfig) (*VideoCollector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &VideoCollector{log: cfg.Logger, cfg: cfg}, nil
}

// Collect opens the frame source for locator, captures frames for the
// requested duration plus the boundary padding, and finalizes the
// metrics record. Failure to open the source is fatal; failed reads are
// tolerated up to the time budget. Source and sink are released before
// Collect returns, on every path.
func (c *VideoCollector) Collect(ctx context.Context, locator string) (*VideoMetrics, error) {
	clock := c.cfg.Clock

	c.log.Info("Starting video capture",
		"locator", locator,
		"nominalFPS", c.cfg.NominalFPS,
		"duration", c.cfg.Duration,
	)

	connectStart := clock.Now()
	props, err := c.cfg.Source.Open(ctx, locator)
	if err != nil {
		metrics.Errors.WithLabelValues(metrics.ErrorTypeVideoConnect).Inc()
		return nil, NewConnectionError("open_stream", "failed to open video stream", err)
	}
	connectionTime := clock.Since(connectStart)

	released := false
	defer func() {
		if !released {
			c.release()
		}
	}()

	if err := c.cfg.Sink.Open(c.cfg.NominalFPS, props.Width, props.Height); err != nil {
		metrics.Errors.WithLabelValues(metrics.ErrorTypeVideoSink).Inc()
		return nil, NewConnectionError("open_sink", "failed to open video sink", err)
	}

	c.log.Info("Video stream opened",
		"width", props.Width,
		"height", props.Height,
		"connectionTime", connectionTime,
	)

	session := newSession(clock)
	idealDT := 1.0 / float64(c.cfg.NominalFPS)
	budget := c.cfg.Duration + boundaryPadding

	var (
		lastFrameTime = session.start
		firstFrame    = true
		dropped       int
		lastLogSecond = -1
		lastLogFrames int
	)

	for session.elapsed() < budget {
		frame, readErr := c.cfg.Source.Read(ctx)
		now := clock.Now()
		elapsed := now.Sub(session.start)

		if readErr != nil {
			if ctx.Err() != nil {
				c.log.Warn("Video capture interrupted", "elapsed", elapsed)
				break
			}
			dropped++
			session.recordFailure(elapsed)
			metrics.FramesDropped.Inc()
			c.log.Debug("Failed to read frame", "elapsed", elapsed, "error", readErr)
			continue
		}

		// The first successful pull absorbs the connection/stream
		// startup artifact. Not counted, not timed.
		if firstFrame {
			firstFrame = false
			lastFrameTime = now
			continue
		}

		dt := now.Sub(lastFrameTime).Seconds()
		lastFrameTime = now
		session.recordSuccess(elapsed, dt)
		metrics.FramesCaptured.Inc()

		// Real-time stretch: the source delivers frames at irregular
		// intervals while the output advances at the nominal rate, so
		// repeat the frame enough times to preserve wall-clock duration.
		repeat := int(math.Round(dt / idealDT))
		if repeat < 1 {
			repeat = 1
		}
		for i := 0; i < repeat; i++ {
			if werr := c.cfg.Sink.Write(frame); werr != nil {
				metrics.Errors.WithLabelValues(metrics.ErrorTypeVideoSink).Inc()
				c.log.Warn("Failed to write output frame", "error", werr)
				break
			}
		}

		second := int(elapsed / time.Second)
		if second > lastLogSecond && second > 0 {
			c.log.Debug("Capture progress",
				"second", second,
				"frames", session.successes-lastLogFrames,
				"dt", dt,
				"repeat", repeat,
			)
			lastLogSecond = second
			lastLogFrames = session.successes
		}
	}

	testDuration := session.elapsed()
	released = true
	c.release()

	return c.finalize(session, connectionTime, testDuration, dropped), nil
}

func (c *VideoCollector) release() {
	if err := c.cfg.Source.Release(); err != nil {
		c.log.Warn("Failed to release frame source", "error", err)
	}
	if err := c.cfg.Sink.Release(); err != nil {
		c.log.Warn("Failed to release video sink", "error", err)
	}
}

func (c *VideoCollector) finalize(session *metricsSession, connectionTime, testDuration time.Duration, dropped int) *VideoMetrics {
	requestedSeconds := int(c.cfg.Duration / time.Second)
	buckets := session.tally.Analyzed(requestedSeconds)
	degraded := len(buckets) != requestedSeconds
	if degraded {
		c.log.Warn("Analyzed window is missing seconds",
			"requested", requestedSeconds,
			"analyzed", len(buckets),
		)
	}

	perSecond := make([]FrameSecond, 0, len(buckets))
	rates := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		perSecond = append(perSecond, FrameSecond{
			Second:  b.Second,
			Frames:  b.Count,
			Dropped: b.ErrorCount,
		})
		rates = append(rates, float64(b.Count))
	}

	ratesDesc := append([]float64(nil), rates...)
	sort.Sort(sort.Reverse(sort.Float64Slice(ratesDesc)))

	fpsStats := FPSStats{
		MinFPS:      stats.Min(rates),
		MaxFPS:      stats.Max(rates),
		Stability:   stats.Stability(rates),
		Percentiles: ratePercentiles(ratesDesc),
	}

	frameTimesMs := make([]float64, 0, len(session.samples))
	for _, dt := range session.samples {
		frameTimesMs = append(frameTimesMs, dt*1000)
	}
	sort.Float64s(frameTimesMs)

	fileSize := c.cfg.Sink.Size()
	durationSec := testDuration.Seconds()
	var bitrate float64
	if durationSec > 0 {
		bitrate = float64(fileSize) * 8 / (durationSec * 1024 * 1024)
	}

	record := &VideoMetrics{
		ConnectionTime: connectionTime.Seconds(),
		TotalFrames:    session.successes,
		DroppedFrames:  dropped,
		// Mean of per-analyzed-second counts, not total/elapsed: the
		// sustained rate must not include startup transients.
		AvgFPS: stats.Mean(rates),

		FrameTimeMinMs:         stats.Min(frameTimesMs),
		FrameTimeMaxMs:         stats.Max(frameTimesMs),
		FrameTimePercentilesMs: latencyPercentiles(frameTimesMs),

		FramesPerSecond: perSecond,
		FPSStats:        fpsStats,

		TotalSizeMB: float64(fileSize) / (1024 * 1024),
		BitrateMbps: bitrate,

		TestDuration:     durationSec,
		AnalyzedDuration: requestedSeconds,
		DegradedWindow:   degraded,

		VideoFile: c.cfg.Sink.Path(),
	}

	c.log.Info("Video capture completed",
		"totalFrames", record.TotalFrames,
		"droppedFrames", record.DroppedFrames,
		"avgFPS", record.AvgFPS,
		"sizeMB", record.TotalSizeMB,
		"bitrateMbps", record.BitrateMbps,
		"testDuration", record.TestDuration,
		"analyzedSeconds", len(buckets),
	)

	return record
}
