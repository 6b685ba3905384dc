// Package config loads TerraMesh runtime configuration from an optional
// TOML file with environment variable overrides applied on top. Defaults
// are usable out of the box; a missing file is only an error when a path
// was given explicitly.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// LogConfig controls the structured logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" env:"TERRAMESH_LOG_LEVEL"`
	// Format is json or text.
	Format string `toml:"format" env:"TERRAMESH_LOG_FORMAT"`
}

// DataConfig points at CSV data files. Empty paths use the embedded samples.
type DataConfig struct {
	RegionsPath       string `toml:"regions_path" env:"TERRAMESH_REGIONS_PATH"`
	InterventionsPath string `toml:"interventions_path" env:"TERRAMESH_INTERVENTIONS_PATH"`
}

// StorageConfig selects durable stores. Empty values keep everything
// in-memory.
type StorageConfig struct {
	ReportsDir  string `toml:"reports_dir" env:"TERRAMESH_REPORTS_DIR"`
	SessionsDir string `toml:"sessions_dir" env:"TERRAMESH_SESSIONS_DIR"`
	MemoryPath  string `toml:"memory_path" env:"TERRAMESH_MEMORY_PATH"`
}

// ModelConfig selects the optional LLM backend for goal parsing and
// scenario proposal. An empty provider keeps the deterministic pipeline.
type ModelConfig struct {
	// Provider is "", "openai" or "anthropic".
	Provider string `toml:"provider" env:"TERRAMESH_MODEL_PROVIDER"`
	// Name overrides the provider's default model.
	Name string `toml:"name" env:"TERRAMESH_MODEL_NAME"`
	// APIKey is deliberately env-only so it never lands in a config file.
	APIKey string `toml:"-" env:"TERRAMESH_API_KEY"`
}

// Config is the root runtime configuration.
type Config struct {
	// DefaultRegion is applied when a caller does not name a region.
	DefaultRegion string `toml:"default_region" env:"TERRAMESH_DEFAULT_REGION"`
	// StepLimit bounds the dispatch loop of one session run.
	StepLimit int `toml:"step_limit" env:"TERRAMESH_STEP_LIMIT"`
	// MaxScenarios caps the fan-out width per session.
	MaxScenarios int `toml:"max_scenarios" env:"TERRAMESH_MAX_SCENARIOS"`

	Log     LogConfig     `toml:"log"`
	Data    DataConfig    `toml:"data"`
	Storage StorageConfig `toml:"storage"`
	Model   ModelConfig   `toml:"model"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		DefaultRegion: "coastal_city_01",
		StepLimit:     200,
		MaxScenarios:  6,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the effective configuration: defaults, then the TOML file at
// path (when non-empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
		}
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.StepLimit <= 0 {
		return fmt.Errorf("config: step_limit must be positive, got %d", c.StepLimit)
	}
	if c.MaxScenarios <= 0 {
		return fmt.Errorf("config: max_scenarios must be positive, got %d", c.MaxScenarios)
	}
	switch c.Model.Provider {
	case "", "openai", "anthropic":
	default:
		return fmt.Errorf("config: unknown model provider %q", c.Model.Provider)
	}
	return nil
}
