package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"lookupgen/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetBeforeInitializeIsNoop(t *testing.T) {
	Reset()
	l := Get(CategoryExtract)
	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestCategoriesAreNamedAndFiltered(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core), map[string]bool{"watch": false})
	t.Cleanup(Reset)

	Get(CategoryExtract).Info("scanning")
	Get(CategoryWatch).Info("should be dropped")
	Get(CategoryTable).Debug("rendering")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "extract", entries[0].LoggerName)
	assert.Equal(t, "table", entries[1].LoggerName)
	assert.False(t, IsCategoryEnabled(CategoryWatch))
	assert.True(t, IsCategoryEnabled(CategoryBatch))
}

func TestInitializeLevelAndFormat(t *testing.T) {
	t.Cleanup(Reset)

	var buf bytes.Buffer
	_, err := Initialize(config.LoggingConfig{Level: "info", Format: "json"}, false, zapcore.AddSync(&buf))
	require.NoError(t, err)

	Get(CategoryGenerate).Debug("hidden")
	Get(CategoryGenerate).Info("wrote table", zap.String("output", "lookup.h"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "wrote table", entry["msg"])
	assert.Equal(t, "generate", entry["logger"])
	assert.Equal(t, "lookup.h", entry["output"])
}

func TestInitializeVerboseForcesDebug(t *testing.T) {
	t.Cleanup(Reset)

	var buf bytes.Buffer
	_, err := Initialize(config.LoggingConfig{Level: "error"}, true, zapcore.AddSync(&buf))
	require.NoError(t, err)

	Get(CategoryExtract).Debug("block start")
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "block start")
}

func TestInitializeRejectsBadConfig(t *testing.T) {
	var buf bytes.Buffer
	_, err := Initialize(config.LoggingConfig{Level: "loud"}, false, zapcore.AddSync(&buf))
	assert.Error(t, err)

	_, err = Initialize(config.LoggingConfig{Format: "xml"}, false, zapcore.AddSync(&buf))
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zapcore.Level{
		"":        zapcore.WarnLevel,
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
