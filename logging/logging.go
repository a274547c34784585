// Package logging builds the logr.Logger used across the module on top of zap.
//
// Library packages only see logr.Logger; this package is the single place
// that knows about zap. Verbosity follows logr: V(0) is info, V(DEBUG) and
// V(TRACE) map to zap levels -1 and -2.
package logging

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels for logger.V(...).
const (
	INFO  = 0
	DEBUG = 1
	TRACE = 2
)

// ParseLevel maps "error", "warn", "info", "debug" or "trace" to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return zapcore.ErrorLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.Level(-DEBUG), nil
	case "trace":
		return zapcore.Level(-TRACE), nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("logging: unknown level %q", level)
	}
}

// New builds a logger writing to stderr. Development mode uses the console
// encoder; production mode emits JSON.
func New(level string, development bool) (logr.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return logr.Discard(), err
	}

	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("logging: build zap logger: %w", err)
	}

	return zapr.NewLogger(zl), nil
}

// NewWithCore wraps an existing zap core, e.g. an observer in tests.
func NewWithCore(core zapcore.Core) logr.Logger {
	return zapr.NewLogger(zap.New(core))
}

// NewTestLogger returns a development logger at TRACE verbosity.
func NewTestLogger() logr.Logger {
	l, err := New("trace", true)
	if err != nil {
		return logr.Discard()
	}

	return l
}
