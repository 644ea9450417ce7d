// Package logging provides internal logging utilities for the router.
package logging

import "github.com/shiyingzhe/mysql-router/types"

// NopLogger is a no-op logger that discards all log messages.
//
// This is used as the default logger when no logger is configured,
// avoiding nil checks throughout the codebase.
type NopLogger struct{}

// Compile-time assertion that NopLogger implements types.Logger.
var _ types.Logger = (*NopLogger)(nil)

// NewNopLogger creates a new no-op logger.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

// Debug discards the message.
func (l *NopLogger) Debug(_ string, _ ...any) {}

// Info discards the message.
func (l *NopLogger) Info(_ string, _ ...any) {}

// Warn discards the message.
func (l *NopLogger) Warn(_ string, _ ...any) {}

// Error discards the message.
func (l *NopLogger) Error(_ string, _ ...any) {}
