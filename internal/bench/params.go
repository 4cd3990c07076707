// Package bench orchestrates full benchmark runs: flashing the firmware
// variant under test, locating the device, running the video and
// control collectors, and persisting the results.
package bench

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/camlabs/cambench/internal/transport"
)

var knownResolutions = map[string]bool{
	"QQVGA": true,
	"QVGA":  true,
	"VGA":   true,
	"SVGA":  true,
	"XGA":   true,
	"SXGA":  true,
	"UXGA":  true,
}

// Params identifies one test combination. An empty VideoProtocol or
// ControlProtocol skips that half of the test.
type Params struct {
	VideoProtocol   transport.VideoProtocol   `json:"video_protocol,omitempty"`
	ControlProtocol transport.ControlProtocol `json:"control_protocol,omitempty"`
	Resolution      string                    `json:"resolution,omitempty"`
	Quality         int                       `json:"quality,omitempty"`
	Metrics         bool                      `json:"metrics"`
	RawMode         bool                      `json:"raw_mode"`
}

func (p Params) Validate() error {
	if p.VideoProtocol == "" && p.ControlProtocol == "" {
		return errors.New("at least one of video or control protocol is required")
	}
	if p.RawMode && p.VideoProtocol == transport.VideoHTTP {
		return errors.New("HTTP video is not supported in raw mode")
	}
	if p.VideoProtocol != "" {
		if p.Resolution == "" {
			return errors.New("resolution is required for video tests")
		}
		if !knownResolutions[p.Resolution] {
			return fmt.Errorf("unknown resolution %q", p.Resolution)
		}
		if p.Quality < 3 || p.Quality > 61 {
			return fmt.Errorf("quality %d out of range [3, 61]", p.Quality)
		}
	}
	return nil
}

// FileName builds a results file name that encodes the combination,
// e.g. video_20260101_120000_vid_HTTP_ctrl_HTTP_res_VGA_q30_metrics.mjpeg.
func (p Params) FileName(clock clockwork.Clock, fileType, extension string) string {
	parts := []string{fileType, clock.Now().Format("20060102_150405")}
	if p.VideoProtocol != "" {
		parts = append(parts, "vid_"+string(p.VideoProtocol))
	}
	if p.ControlProtocol != "" {
		parts = append(parts, "ctrl_"+string(p.ControlProtocol))
	}
	if p.Resolution != "" {
		parts = append(parts, "res_"+p.Resolution)
	}
	if p.Quality > 0 {
		parts = append(parts, fmt.Sprintf("q%d", p.Quality))
	}
	if p.Metrics {
		parts = append(parts, "metrics")
	}
	if p.RawMode {
		parts = append(parts, "raw")
	}
	return strings.Join(parts, "_") + "." + extension
}

// String is the log-friendly rendering of the combination.
func (p Params) String() string {
	return fmt.Sprintf("video=%s control=%s res=%s q=%d metrics=%t raw=%t",
		orNone(string(p.VideoProtocol)), orNone(string(p.ControlProtocol)),
		orNone(p.Resolution), p.Quality, p.Metrics, p.RawMode)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
