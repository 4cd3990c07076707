// Package config loads benchmark configuration from a YAML file with
// environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTestDuration = 10
	DefaultNominalFPS   = 30
	DefaultResultsDir   = "results"
	DefaultMetricsAddr  = ":2112"
)

// Combinations lists the parameter axes swept by a full benchmark run.
type Combinations struct {
	VideoProtocols   []string `yaml:"video_protocols"`
	Resolutions      []string `yaml:"resolutions"`
	Qualities        []int    `yaml:"qualities"`
	ControlProtocols []string `yaml:"control_protocols"`
}

type Config struct {
	TestDuration int          `yaml:"test_duration"`
	NominalFPS   float64      `yaml:"nominal_fps"`
	ResultsDir   string       `yaml:"results_dir"`
	MetricsAddr  string       `yaml:"metrics_addr"`
	Combinations Combinations `yaml:"test_combinations"`
}

func (c *Config) Validate() error {
	if c.TestDuration <= 0 {
		return errors.New("test duration must be positive")
	}
	if c.NominalFPS <= 0 {
		return errors.New("nominal fps must be positive")
	}
	if c.ResultsDir == "" {
		return errors.New("results directory is required")
	}
	return nil
}

// Load reads the YAML config at path. Values of the form ${VAR} are
// substituted from the environment, with a .env file in the working
// directory loaded first if present.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		TestDuration: DefaultTestDuration,
		NominalFPS:   DefaultNominalFPS,
		ResultsDir:   DefaultResultsDir,
		MetricsAddr:  DefaultMetricsAddr,
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
