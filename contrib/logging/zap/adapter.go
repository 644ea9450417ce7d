package zap

import (
	"go.uber.org/zap"

	"github.com/shiyingzhe/mysql-router/types"
)

// Logger adapts a *zap.SugaredLogger to types.Logger.
type Logger struct {
	sugar *zap.SugaredLogger
}

var _ types.Logger = (*Logger)(nil)

// New wraps a *zap.SugaredLogger.
func New(sugar *zap.SugaredLogger) *Logger {
	return &Logger{sugar: sugar}
}

// Debug logs at debug level with structured key/value pairs.
func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Info logs at info level with structured key/value pairs.
func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Warn logs at warn level with structured key/value pairs.
func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, keysAndValues...)
}

// Error logs at error level with structured key/value pairs.
func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, keysAndValues...)
}
