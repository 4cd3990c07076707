// Package firmware builds and uploads camera firmware via PlatformIO.
package firmware

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

const (
	envDefault     = "esp32cam"
	envWithMetrics = "esp32cam_with_metrics"
)

// BuildOptions select the firmware variant compiled for a test run.
// Each option becomes a -D define in PLATFORMIO_BUILD_FLAGS.
type BuildOptions struct {
	VideoProtocol   string
	ControlProtocol string
	Resolution      string
	Quality         int
	Metrics         bool
	RawMode         bool
}

// BuildFlags renders the compiler defines for these options.
func (o BuildOptions) BuildFlags() []string {
	var flags []string
	if o.VideoProtocol != "" {
		flags = append(flags, fmt.Sprintf("-DVIDEO_PROTOCOL=%s", o.VideoProtocol))
	}
	if o.ControlProtocol != "" {
		flags = append(flags, fmt.Sprintf("-DCONTROL_PROTOCOL=%s", o.ControlProtocol))
	}
	if o.Resolution != "" {
		flags = append(flags, fmt.Sprintf("-DCAMERA_RESOLUTION=%s", o.Resolution))
	}
	if o.Quality > 0 {
		flags = append(flags, fmt.Sprintf("-DJPEG_QUALITY=%d", o.Quality))
	}
	flags = append(flags, fmt.Sprintf("-DENABLE_METRICS=%d", boolFlag(o.Metrics)))
	flags = append(flags, fmt.Sprintf("-DRAW_MODE=%d", boolFlag(o.RawMode)))
	return flags
}

// BuildEnv names the PlatformIO environment for these options.
func (o BuildOptions) BuildEnv() string {
	if o.Metrics {
		return envWithMetrics
	}
	return envDefault
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Flasher compiles and uploads firmware to a board over serial.
type Flasher struct {
	log *slog.Logger
	dir string
}

// NewFlasher returns a flasher that runs PlatformIO in dir, or the
// working directory when dir is empty.
func NewFlasher(log *slog.Logger, dir string) *Flasher {
	return &Flasher{log: log, dir: dir}
}

// Flash builds the firmware variant and uploads it over port.
func (f *Flasher) Flash(ctx context.Context, port string, opts BuildOptions) error {
	flags := opts.BuildFlags()
	buildEnv := opts.BuildEnv()
	f.log.Info("Building and flashing firmware",
		"env", buildEnv,
		"port", port,
		"flags", strings.Join(flags, " "),
	)

	cmd := exec.CommandContext(ctx, "pio", "run", "-e", buildEnv, "-t", "upload", "--upload-port", port)
	cmd.Dir = f.dir
	cmd.Env = append(os.Environ(), "PLATFORMIO_BUILD_FLAGS="+strings.Join(flags, " "))
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to build/flash firmware: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
