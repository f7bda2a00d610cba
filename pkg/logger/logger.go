package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide structured logger. Call Init (or InitWithLevel)
// once during startup; the package helpers below are nil-safe so library
// code can log without caring whether main wired logging yet.
var Log *zap.SugaredLogger

// Init initializes the global logger honoring REDLINE_LOG_LEVEL and
// REDLINE_LOG_SINK (e.g. "file:/var/log/redline.log").
func Init() {
	InitWithLevel(os.Getenv("REDLINE_LOG_LEVEL"))
}

// InitWithLevel initializes the global logger with the given level string
// ("debug", "info", "warn", "error"). Empty falls back to the
// REDLINE_LOG_LEVEL env var, then to info.
func InitWithLevel(level string) {
	lvl := strings.ToLower(strings.TrimSpace(level))
	if lvl == "" {
		lvl = strings.ToLower(strings.TrimSpace(os.Getenv("REDLINE_LOG_LEVEL")))
	}
	var zl zapcore.Level
	switch lvl {
	case "debug":
		zl = zapcore.DebugLevel
	case "warn", "warning":
		zl = zapcore.WarnLevel
	case "error":
		zl = zapcore.ErrorLevel
	default:
		zl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zl)
	cfg.OutputPaths = []string{"stdout"}
	if sink := os.Getenv("REDLINE_LOG_SINK"); strings.HasPrefix(sink, "file:") {
		cfg.OutputPaths = []string{strings.TrimPrefix(sink, "file:")}
	}
	l, err := cfg.Build()
	if err != nil {
		// last resort: a no-op logger so helpers stay safe
		Log = zap.NewNop().Sugar()
		return
	}
	Log = l.Sugar()
}

// Sync flushes buffered log entries.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

// Debug logs with key/value pairs.
func Debug(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Debugw(msg, args...)
}

// Info logs with key/value pairs.
func Info(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Infow(msg, args...)
}

// Warn logs with key/value pairs.
func Warn(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Warnw(msg, args...)
}

// Error logs with key/value pairs.
func Error(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Errorw(msg, args...)
}
