package zap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	zapadapter "github.com/shiyingzhe/mysql-router/contrib/logging/zap"
)

func TestLoggerForwardsToSugaredLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zapadapter.New(zap.New(core).Sugar())

	logger.Warn("connect failed", "host", "127.0.0.1", "port", 3310)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "connect failed", entry.Message)
	assert.Equal(t, "127.0.0.1", entry.ContextMap()["host"])
}
