package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camlabs/cambench/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bench_config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfig_Load(t *testing.T) {
	t.Run("parses full config", func(t *testing.T) {
		path := writeConfig(t, `
test_duration: 20
nominal_fps: 25
results_dir: out
metrics_addr: ":9000"
test_combinations:
  video_protocols: [HTTP, RTSP]
  resolutions: [VGA, SVGA]
  qualities: [10, 30]
  control_protocols: [HTTP]
`)
		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 20, cfg.TestDuration)
		assert.Equal(t, 25.0, cfg.NominalFPS)
		assert.Equal(t, "out", cfg.ResultsDir)
		assert.Equal(t, ":9000", cfg.MetricsAddr)
		assert.Equal(t, []string{"HTTP", "RTSP"}, cfg.Combinations.VideoProtocols)
		assert.Equal(t, []string{"VGA", "SVGA"}, cfg.Combinations.Resolutions)
		assert.Equal(t, []int{10, 30}, cfg.Combinations.Qualities)
		assert.Equal(t, []string{"HTTP"}, cfg.Combinations.ControlProtocols)
	})

	t.Run("applies defaults for missing fields", func(t *testing.T) {
		path := writeConfig(t, `test_combinations: {video_protocols: [HTTP]}`)
		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultTestDuration, cfg.TestDuration)
		assert.Equal(t, float64(config.DefaultNominalFPS), cfg.NominalFPS)
		assert.Equal(t, config.DefaultResultsDir, cfg.ResultsDir)
		assert.Equal(t, config.DefaultMetricsAddr, cfg.MetricsAddr)
	})

	t.Run("expands environment variables", func(t *testing.T) {
		t.Setenv("BENCH_RESULTS_DIR", "env-results")
		path := writeConfig(t, `results_dir: ${BENCH_RESULTS_DIR}`)
		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "env-results", cfg.ResultsDir)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		path := writeConfig(t, `test_duration: -1`)
		_, err := config.Load(path)
		require.ErrorContains(t, err, "test duration must be positive")
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		path := writeConfig(t, "test_duration: [broken")
		_, err := config.Load(path)
		require.ErrorContains(t, err, "failed to parse config")
	})
}
