package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "cambench"

	// Metrics names.
	MetricNameBuildInfo      = Namespace + "_build_info"
	MetricNameErrors         = Namespace + "_errors_total"
	MetricNameFramesCaptured = Namespace + "_frames_captured_total"
	MetricNameFramesDropped  = Namespace + "_frames_dropped_total"
	MetricNameCommandsSent   = Namespace + "_commands_sent_total"
	MetricNameCommandErrors  = Namespace + "_command_errors_total"

	// Labels.
	LabelVersion   = "version"
	LabelCommit    = "commit"
	LabelDate      = "date"
	LabelErrorType = "error_type"

	// Error types.
	ErrorTypeVideoConnect    = "video_connect"
	ErrorTypeVideoSink       = "video_sink"
	ErrorTypeControlSend     = "control_send"
	ErrorTypeResultWrite     = "result_write"
	ErrorTypeDeviceDiscovery = "device_discovery"
	ErrorTypeFirmwareFlash   = "firmware_flash"
)

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameBuildInfo,
			Help: "Build information of the camera benchmark",
		},
		[]string{LabelVersion, LabelCommit, LabelDate},
	)

	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameErrors,
			Help: "Number of errors encountered",
		},
		[]string{LabelErrorType},
	)

	FramesCaptured = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameFramesCaptured,
			Help: "Number of raw frames captured from the device",
		},
	)

	FramesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameFramesDropped,
			Help: "Number of frame reads that failed",
		},
	)

	CommandsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCommandsSent,
			Help: "Number of control commands dispatched successfully",
		},
	)

	CommandErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCommandErrors,
			Help: "Number of control commands that failed",
		},
	)
)
