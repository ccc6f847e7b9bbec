package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger = zap.NewNop()

// Init builds the process-wide logger. format is "console" or "json".
func Init(level, format string) error {
	l, err := New(level, format)
	if err != nil {
		return err
	}
	globalLogger = l
	return nil
}

// New creates a zap logger writing to stdout/stderr.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var encoderConfig zapcore.EncoderConfig
	encoding := "console"
	switch format {
	case "json":
		encoding = "json"
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case "console", "":
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Development:      encoding == "console",
		Encoding:         encoding,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    encoderConfig,
	}
	l, err := cfg.Build(zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

// Get returns the global logger instance.
func Get() *zap.Logger {
	return globalLogger
}

// Replace swaps the global logger and returns a func restoring the previous one.
func Replace(l *zap.Logger) func() {
	prev := globalLogger
	globalLogger = l
	return func() { globalLogger = prev }
}

func Debug(msg string, fields ...zap.Field) { globalLogger.Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { globalLogger.Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { globalLogger.Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { globalLogger.Error(msg, fields...) }

func Fatal(msg string, fields ...zap.Field) { globalLogger.Fatal(msg, fields...) }

// With creates a child logger with additional fields.
func With(fields ...zap.Field) *zap.Logger {
	return globalLogger.With(fields...)
}

// Sync flushes any buffered log entries.
func Sync() error {
	return globalLogger.Sync()
}
