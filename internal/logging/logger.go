// Package logging provides config-driven categorized logging for lookupgen.
// Every category is a named child of one zap logger writing to stderr, so log
// lines never mix with generated output on stdout.
// Until Initialize is called, and for disabled categories, Get returns a no-op logger.
package logging

import (
	"fmt"
	"strings"
	"sync"

	"lookupgen/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/subsystem
type Category string

const (
	CategoryExtract  Category = "extract"  // Block scanning and entry decoding
	CategoryTable    Category = "table"    // Slot filling, default resolution, rendering
	CategoryGenerate Category = "generate" // Job orchestration, output files
	CategoryCheck    Category = "check"    // Drift detection against committed tables
	CategoryWatch    Category = "watch"    // Filesystem watcher
	CategoryBatch    Category = "batch"    // Manifest runs
)

var (
	mu         sync.RWMutex
	base       = zap.NewNop()
	loggers    = make(map[Category]*zap.Logger)
	categories map[string]bool
)

// ParseLevel maps a config level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "", "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.WarnLevel, fmt.Errorf("unknown log level %q", level)
}

// Initialize builds the root logger from cfg. verbose forces debug level.
// out receives every log line; pass zapcore.Lock(os.Stderr) in production.
func Initialize(cfg config.LoggingConfig, verbose bool, out zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	switch cfg.Format {
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "", "console", "text":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	l := zap.New(zapcore.NewCore(enc, out, zap.NewAtomicLevelAt(level)))
	Set(l, cfg.Categories)
	return l, nil
}

// Set installs l as the root logger. A category mapped to false in cats is silenced.
func Set(l *zap.Logger, cats map[string]bool) {
	mu.Lock()
	defer mu.Unlock()
	base = l
	categories = cats
	loggers = make(map[Category]*zap.Logger)
}

// IsCategoryEnabled returns whether a specific category is enabled.
// Categories not mentioned in config are enabled.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	enabled, exists := categories[string(category)]
	return !exists || enabled
}

// Get returns (or creates) the logger for a category.
func Get(category Category) *zap.Logger {
	if !IsCategoryEnabled(category) {
		return zap.NewNop()
	}

	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := base.Named(string(category))
	loggers[category] = l
	return l
}

// Sync flushes the root logger.
func Sync() {
	mu.RLock()
	l := base
	mu.RUnlock()
	_ = l.Sync()
}

// Reset drops back to the no-op logger.
func Reset() {
	Set(zap.NewNop(), nil)
}
