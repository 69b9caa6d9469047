package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for configuration when --config is not given.
const DefaultPath = ".lookupgen.yaml"

// Config holds all lookupgen configuration.
type Config struct {
	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Drift reports and terminal output
	Output OutputConfig `yaml:"output"`

	// Watch mode
	Watch WatchConfig `yaml:"watch"`

	// Manifest runs
	Batch BatchConfig `yaml:"batch"`
}

// OutputConfig configures how drift reports are shown.
type OutputConfig struct {
	Color        string `yaml:"color"`         // auto, always, never
	ContextLines int    `yaml:"context_lines"` // lines of context around each change
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce"` // quiet period before regenerating
}

// BatchConfig configures manifest runs.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"` // jobs generated at the same time
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Output: OutputConfig{
			Color:        "auto",
			ContextLines: 3,
		},
		Watch: WatchConfig{
			Debounce: "200ms",
		},
		Batch: BatchConfig{
			Concurrency: 4,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Defaults if the file doesn't exist
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("LOOKUPGEN_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("LOOKUPGEN_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}

	if color := os.Getenv("LOOKUPGEN_COLOR"); color != "" {
		c.Output.Color = color
	}
	// https://no-color.org wins over everything else
	if os.Getenv("NO_COLOR") != "" {
		c.Output.Color = "never"
	}

	if s := os.Getenv("LOOKUPGEN_CONCURRENCY"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			c.Batch.Concurrency = n
		}
	}
}

// ValidColorModes lists the accepted output.color values.
var ValidColorModes = []string{"auto", "always", "never"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validColor := false
	for _, m := range ValidColorModes {
		if c.Output.Color == m {
			validColor = true
			break
		}
	}
	if !validColor {
		return fmt.Errorf("invalid output color mode: %s (valid: %v)", c.Output.Color, ValidColorModes)
	}

	if c.Output.ContextLines < 0 {
		return fmt.Errorf("output.context_lines must not be negative, got %d", c.Output.ContextLines)
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be at least 1, got %d", c.Batch.Concurrency)
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("invalid watch.debounce %q: %w", c.Watch.Debounce, err)
	}
	return nil
}

// GetDebounce returns the watch debounce as a duration.
func (c *Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 200 * time.Millisecond
	}
	return d
}
