package bench_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camlabs/cambench/internal/bench"
	"github.com/camlabs/cambench/internal/transport"
)

func TestBench_ParamsValidate(t *testing.T) {
	t.Parallel()

	valid := bench.Params{
		VideoProtocol:   transport.VideoHTTP,
		ControlProtocol: transport.ControlHTTP,
		Resolution:      "VGA",
		Quality:         30,
		Metrics:         true,
	}
	require.NoError(t, valid.Validate())

	t.Run("control only is fine", func(t *testing.T) {
		t.Parallel()
		p := bench.Params{ControlProtocol: transport.ControlHTTP}
		require.NoError(t, p.Validate())
	})

	t.Run("no protocols", func(t *testing.T) {
		t.Parallel()
		require.Error(t, bench.Params{}.Validate())
	})

	t.Run("raw mode excludes HTTP video", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.RawMode = true
		require.ErrorContains(t, p.Validate(), "raw mode")
	})

	t.Run("video requires resolution", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.Resolution = ""
		require.Error(t, p.Validate())
	})

	t.Run("unknown resolution", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.Resolution = "8K"
		require.Error(t, p.Validate())
	})

	t.Run("quality bounds", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.Quality = 2
		require.Error(t, p.Validate())
		p.Quality = 62
		require.Error(t, p.Validate())
		p.Quality = 3
		require.NoError(t, p.Validate())
		p.Quality = 61
		require.NoError(t, p.Validate())
	})
}

func TestBench_ParamsFileName(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC))

	t.Run("encodes all parameters", func(t *testing.T) {
		t.Parallel()
		p := bench.Params{
			VideoProtocol:   transport.VideoRTSP,
			ControlProtocol: transport.ControlHTTP,
			Resolution:      "VGA",
			Quality:         30,
			Metrics:         true,
			RawMode:         true,
		}
		assert.Equal(t,
			"video_20260102_150405_vid_RTSP_ctrl_HTTP_res_VGA_q30_metrics_raw.mjpeg",
			p.FileName(clock, "video", "mjpeg"))
	})

	t.Run("omits unset parameters", func(t *testing.T) {
		t.Parallel()
		p := bench.Params{ControlProtocol: transport.ControlHTTP}
		assert.Equal(t,
			"metrics_20260102_150405_ctrl_HTTP.json",
			p.FileName(clock, "metrics", "json"))
	})
}
