package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements the domain.Logger interface.
type ZapLogger struct {
	logger *zap.SugaredLogger
}

// NewFileLogger creates a logger that appends JSON lines to logFilePath.
func NewFileLogger(logFilePath, level string) (*ZapLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{logFilePath}
	cfg.ErrorOutputPaths = []string{logFilePath}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &ZapLogger{logger: logger.Sugar()}, nil
}

// New wraps an existing zap logger, e.g. one from zaptest.
func New(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: logger.Sugar()}
}

// Info logs an informational message.
func (l *ZapLogger) Info(msg string, args ...interface{}) {
	l.logger.Infof(msg, args...)
}

// Error logs an error message.
func (l *ZapLogger) Error(msg string, args ...interface{}) {
	l.logger.Errorf(msg, args...)
}

// Warning logs a warning message.
func (l *ZapLogger) Warning(msg string, args ...interface{}) {
	l.logger.Warnf(msg, args...)
}

// Log logs a standard operation message.
func (l *ZapLogger) Log(msg string) {
	l.logger.Info(msg)
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}
