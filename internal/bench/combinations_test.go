package bench_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/camlabs/cambench/internal/bench"
	"github.com/camlabs/cambench/internal/config"
	"github.com/camlabs/cambench/internal/transport"
)

func TestBench_Combinations(t *testing.T) {
	t.Parallel()

	t.Run("sweeps all axes and skips raw HTTP video", func(t *testing.T) {
		t.Parallel()
		combos := bench.Combinations(config.Combinations{
			VideoProtocols:   []string{"HTTP", "RTSP"},
			Resolutions:      []string{"VGA"},
			Qualities:        []int{30},
			ControlProtocols: []string{"HTTP"},
		})

		want := []bench.Params{
			{VideoProtocol: transport.VideoHTTP, ControlProtocol: transport.ControlHTTP, Resolution: "VGA", Quality: 30, Metrics: true, RawMode: false},
			{VideoProtocol: transport.VideoRTSP, ControlProtocol: transport.ControlHTTP, Resolution: "VGA", Quality: 30, Metrics: true, RawMode: true},
			{VideoProtocol: transport.VideoRTSP, ControlProtocol: transport.ControlHTTP, Resolution: "VGA", Quality: 30, Metrics: true, RawMode: false},
		}
		if diff := cmp.Diff(want, combos); diff != "" {
			t.Errorf("unexpected combinations (-want +got):\n%s", diff)
		}
	})

	t.Run("count scales with the axes", func(t *testing.T) {
		t.Parallel()
		combos := bench.Combinations(config.Combinations{
			VideoProtocols:   []string{"RTSP", "UDP"},
			Resolutions:      []string{"QVGA", "VGA", "SVGA"},
			Qualities:        []int{10, 30},
			ControlProtocols: []string{"HTTP", "UDP"},
		})
		// 2 video * 3 res * 2 quality * 2 control * 2 raw modes.
		assert.Len(t, combos, 48)
	})

	t.Run("empty axes produce nothing", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, bench.Combinations(config.Combinations{}))
	})
}
