package collector

import (
	"sort"

	"github.com/camlabs/cambench/internal/stats"
)

// LatencyPercentiles summarizes a lower-is-better distribution
// (latency, frame inter-arrival time), in milliseconds.
type LatencyPercentiles struct {
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

// RatePercentiles summarizes a higher-is-better distribution (units of
// work per second). P90 is the rate achieved or exceeded during 90% of
// the analyzed seconds.
type RatePercentiles struct {
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type LatencyStats struct {
	MinMs       float64            `json:"min_ms"`
	MaxMs       float64            `json:"max_ms"`
	AvgMs       float64            `json:"avg_ms"`
	StabilityMs float64            `json:"stability_ms"`
	Percentiles LatencyPercentiles `json:"percentiles"`
}

type FPSStats struct {
	MinFPS      float64         `json:"min_fps"`
	MaxFPS      float64         `json:"max_fps"`
	Stability   float64         `json:"fps_stability"`
	Percentiles RatePercentiles `json:"percentiles"`
}

// FrameSecond is one analyzed second of the video test.
type FrameSecond struct {
	Second  int `json:"second"`
	Frames  int `json:"frames"`
	Dropped int `json:"dropped"`
}

// CommandSecond is one analyzed second of the control test.
type CommandSecond struct {
	Second   int `json:"second"`
	Commands int `json:"commands"`
	Errors   int `json:"errors"`
}

// VideoMetrics is the finished record of one video collector run.
// Read-only once produced; intended for direct JSON serialization.
type VideoMetrics struct {
	ConnectionTime float64 `json:"connection_time"`
	TotalFrames    int     `json:"total_frames"`
	DroppedFrames  int     `json:"dropped_frames"`
	AvgFPS         float64 `json:"avg_fps"`

	FrameTimeMinMs         float64            `json:"frame_time_min_ms"`
	FrameTimeMaxMs         float64            `json:"frame_time_max_ms"`
	FrameTimePercentilesMs LatencyPercentiles `json:"frame_time_percentiles_ms"`

	FramesPerSecond []FrameSecond `json:"frames_per_second"`
	FPSStats        FPSStats      `json:"fps_stats"`

	TotalSizeMB float64 `json:"total_size_mb"`
	BitrateMbps float64 `json:"bitrate_mbps"`

	TestDuration     float64 `json:"test_duration"`
	AnalyzedDuration int     `json:"analyzed_duration"`

	// DegradedWindow is set when the analyzed window has fewer seconds
	// than requested (some second saw zero events).
	DegradedWindow bool `json:"degraded_window"`

	VideoFile string `json:"video_file"`
}

// ControlMetrics is the finished record of one control collector run.
type ControlMetrics struct {
	LatencyMs         []float64       `json:"latency_ms"`
	SuccessRate       float64         `json:"success_rate"`
	Errors            []string        `json:"errors"`
	CommandsPerSecond []CommandSecond `json:"commands_per_second"`
	LatencyStats      LatencyStats    `json:"latency_stats"`
	DegradedWindow    bool            `json:"degraded_window"`
}

// latencyStats builds the summary for latency samples in milliseconds.
// Returns a zero-filled record for empty input so downstream analysis
// never needs to special-case a missing key.
func latencyStats(samplesMs []float64) LatencyStats {
	if len(samplesMs) == 0 {
		return LatencyStats{}
	}
	sorted := append([]float64(nil), samplesMs...)
	sort.Float64s(sorted)
	return LatencyStats{
		MinMs:       sorted[0],
		MaxMs:       sorted[len(sorted)-1],
		AvgMs:       stats.Mean(sorted),
		StabilityMs: stats.Stability(sorted),
		Percentiles: latencyPercentiles(sorted),
	}
}

// latencyPercentiles expects a non-empty ascending sample list.
func latencyPercentiles(sortedAsc []float64) LatencyPercentiles {
	if len(sortedAsc) == 0 {
		return LatencyPercentiles{}
	}
	at := func(p float64) float64 {
		v, err := stats.PercentileAscending(sortedAsc, p)
		if err != nil {
			return 0
		}
		return v
	}
	return LatencyPercentiles{
		P50: at(0.50),
		P90: at(0.90),
		P95: at(0.95),
		P99: at(0.99),
	}
}

// ratePercentiles expects a non-empty descending rate list.
func ratePercentiles(sortedDesc []float64) RatePercentiles {
	if len(sortedDesc) == 0 {
		return RatePercentiles{}
	}
	at := func(p float64) float64 {
		v, err := stats.PercentileDescending(sortedDesc, p)
		if err != nil {
			return 0
		}
		return v
	}
	return RatePercentiles{
		P50: at(0.50),
		P75: at(0.75),
		P90: at(0.90),
		P95: at(0.95),
		P99: at(0.99),
	}
}
