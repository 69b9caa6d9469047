package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("log level and format", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOOKUPGEN_LOG_LEVEL", "debug")
		t.Setenv("LOOKUPGEN_LOG_FORMAT", "json")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
	})

	t.Run("LOOKUPGEN_COLOR sets color mode", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOOKUPGEN_COLOR", "always")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "always", cfg.Output.Color)
	})

	t.Run("NO_COLOR wins over LOOKUPGEN_COLOR", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOOKUPGEN_COLOR", "always")
		t.Setenv("NO_COLOR", "1")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "never", cfg.Output.Color)
	})

	t.Run("concurrency", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOOKUPGEN_CONCURRENCY", "8")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, 8, cfg.Batch.Concurrency)
	})

	t.Run("unparsable concurrency is ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOOKUPGEN_CONCURRENCY", "many")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, 4, cfg.Batch.Concurrency)
	})

	t.Run("empty values leave config alone", func(t *testing.T) {
		clearEnv(t)

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, DefaultConfig(), cfg)
	})
}
