// Package logger holds the process-wide structured logger.
//
// The interactive surface owns the terminal, so the TUI only logs when a log
// file is configured. The CLI logs warnings to stderr.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global logger instance
	Logger *zap.SugaredLogger
)

func init() {
	// No-op until Initialize is called so packages can log unconditionally
	Logger = zap.NewNop().Sugar()
}

// Options configures the global logger
type Options struct {
	// Level is one of debug, info, warn, error. Empty means warn.
	Level string
	// File, when set, receives JSON log lines instead of stderr.
	File string
	// Quiet discards everything unless File is set. Used by the TUI.
	Quiet bool
}

// Initialize sets up the global logger from opts
func Initialize(opts Options) error {
	level := ParseLevel(opts.Level)

	if opts.File != "" {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{opts.File}
		config.ErrorOutputPaths = []string{opts.File}
		zapLogger, err := config.Build()
		if err != nil {
			return err
		}
		Logger = zapLogger.Sugar()
		return nil
	}

	if opts.Quiet {
		Logger = zap.NewNop().Sugar()
		return nil
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.CallerKey = ""
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	Logger = zap.New(
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(os.Stderr),
			level,
		),
	).Sugar()
	return nil
}

// ParseLevel maps a level name to a zap level, defaulting to warn
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.WarnLevel
	}
}

// Sync flushes buffered log entries
func Sync() {
	_ = Logger.Sync()
}
