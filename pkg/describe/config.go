package describe

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration settings for a run.
// Settings are merged from all supplied configs (last wins).
// CLI flags (--tags, --parallel, --seed) always override code config.
type Config struct {
	// Parallel runs sibling steps and sibling groups concurrently.
	Parallel bool `yaml:"parallel"`

	// Concurrency bounds the number of siblings running at once when Parallel
	// is set. Zero or negative means unbounded.
	Concurrency int `yaml:"concurrency"`

	// Shuffle randomizes the step order using Seed.
	Shuffle bool `yaml:"shuffle"`

	// Seed feeds the shuffled ordering. Only used when Shuffle is set.
	Seed int64 `yaml:"seed"`

	// Tags is a cucumber tag expression, e.g. "@smoke and not @slow".
	// Empty selects every case.
	Tags string `yaml:"tags"`

	// NoColor disables colored console output.
	NoColor bool `yaml:"no_color"`

	// DisableLog replaces the runner logger with a no-op logger.
	DisableLog bool `yaml:"disable_log"`

	// DisableReporter suppresses console reporter output.
	DisableReporter bool `yaml:"disable_reporter"`

	// HTMLReport is the path of an HTML report written after the run.
	// Empty disables it.
	HTMLReport string `yaml:"html_report"`

	// Logger sets a custom runner logger. If nil, nothing is logged.
	Logger Logger `yaml:"-"`
}

// MergeConfigs combines multiple configs into one.
// Later configs override earlier ones (last wins).
func MergeConfigs(configs ...*Config) *Config {
	result := &Config{}

	for _, cfg := range configs {
		if cfg == nil {
			continue
		}

		if cfg.Parallel {
			result.Parallel = true
		}
		if cfg.Concurrency != 0 {
			result.Concurrency = cfg.Concurrency
		}
		if cfg.Shuffle {
			result.Shuffle = true
			result.Seed = cfg.Seed
		}
		if cfg.Tags != "" {
			result.Tags = cfg.Tags
		}
		if cfg.NoColor {
			result.NoColor = true
		}
		if cfg.DisableLog {
			result.DisableLog = true
		}
		if cfg.DisableReporter {
			result.DisableReporter = true
		}
		if cfg.HTMLReport != "" {
			result.HTMLReport = cfg.HTMLReport
		}
		if cfg.Logger != nil {
			result.Logger = cfg.Logger
		}
	}

	return result
}

// RunLogger returns the logger the config selects.
func (c *Config) RunLogger() Logger {
	if c == nil || c.DisableLog || c.Logger == nil {
		return NopLogger()
	}
	return c.Logger
}

// LoadConfig reads a YAML config document.
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := &Config{}
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("could not decode config: %w", err)
	}
	if cfg.Concurrency < 0 {
		return nil, fmt.Errorf("concurrency must not be negative, got %d", cfg.Concurrency)
	}
	return cfg, nil
}
