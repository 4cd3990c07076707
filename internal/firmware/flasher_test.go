package firmware_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/camlabs/cambench/internal/firmware"
)

func TestFirmware_BuildFlags(t *testing.T) {
	t.Parallel()

	t.Run("full option set", func(t *testing.T) {
		t.Parallel()
		opts := firmware.BuildOptions{
			VideoProtocol:   "HTTP",
			ControlProtocol: "HTTP",
			Resolution:      "VGA",
			Quality:         30,
			Metrics:         true,
		}
		assert.Equal(t, []string{
			"-DVIDEO_PROTOCOL=HTTP",
			"-DCONTROL_PROTOCOL=HTTP",
			"-DCAMERA_RESOLUTION=VGA",
			"-DJPEG_QUALITY=30",
			"-DENABLE_METRICS=1",
			"-DRAW_MODE=0",
		}, opts.BuildFlags())
	})

	t.Run("metrics and raw flags are always present", func(t *testing.T) {
		t.Parallel()
		opts := firmware.BuildOptions{RawMode: true}
		assert.Equal(t, []string{"-DENABLE_METRICS=0", "-DRAW_MODE=1"}, opts.BuildFlags())
	})
}

func TestFirmware_BuildEnv(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "esp32cam", firmware.BuildOptions{}.BuildEnv())
	assert.Equal(t, "esp32cam_with_metrics", firmware.BuildOptions{Metrics: true}.BuildEnv())
}
