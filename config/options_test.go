package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shiyingzhe/mysql-router/config"
	zapadapter "github.com/shiyingzhe/mysql-router/contrib/logging/zap"
	"github.com/shiyingzhe/mysql-router/types"
)

func TestNewRequiresDestinationsAndMode(t *testing.T) {
	_, err := config.New("localhost:3306", "read-write", config.WithBindPort(6446))
	require.NoError(t, err)
}

func TestNewRejectsInvalidMode(t *testing.T) {
	_, err := config.New("localhost:3306", "bogus", config.WithBindPort(6446))
	require.Error(t, err)
	var cfgErr *types.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "mode", cfgErr.Option)
}

func TestNewRequiresBindAddressOrSocket(t *testing.T) {
	_, err := config.New("localhost:3306", "read-write")
	require.Error(t, err)
	var cfgErr *types.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "bind_address", cfgErr.Option)
}

func TestNewAcceptsSocketWithoutBindAddress(t *testing.T) {
	o, err := config.New("localhost:3306", "read-only", config.WithSocket("/tmp/router.sock"))
	require.NoError(t, err)
	assert.Equal(t, types.ReadOnly, o.Mode)
	assert.Equal(t, "/tmp/router.sock", o.Socket)
}

func TestNewBindAddressCarriesItsOwnPort(t *testing.T) {
	o, err := config.New("localhost:3306", "read-write", config.WithBindAddress("127.0.0.1:6446"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", o.BindHost)
	assert.Equal(t, uint16(6446), o.BindPort)
}

func TestNewBindAddressWithoutPortFallsBackToBindPort(t *testing.T) {
	o, err := config.New("localhost:3306", "read-write",
		config.WithBindAddress("127.0.0.1"),
		config.WithBindPort(6447),
	)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", o.BindHost)
	assert.Equal(t, uint16(6447), o.BindPort)
}

func TestNewRejectsOutOfBoundsNetBufferLength(t *testing.T) {
	_, err := config.New("localhost:3306", "read-write",
		config.WithBindPort(6446),
		config.WithNetBufferLength(100),
	)
	require.Error(t, err)
	var cfgErr *types.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "net_buffer_length", cfgErr.Option)
}

func TestNewPropagatesInvalidDestinations(t *testing.T) {
	_, err := config.New(",localhost", "read-write", config.WithBindPort(6446))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidDestination)
}

func TestLoadSectionMissingRequiredOption(t *testing.T) {
	_, err := config.LoadSection(map[string]string{"mode": "read-write"}, nil)
	require.Error(t, err)
	var cfgErr *types.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "destinations", cfgErr.Option)
}

func TestLoadSectionWarnsOnUnknownOption(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zapadapter.New(zap.New(core).Sugar())

	o, err := config.LoadSection(map[string]string{
		"destinations": "localhost:3306",
		"mode":         "read-write",
		"bind_port":    "6446",
		"frobnicate":   "yes",
	}, logger)
	require.NoError(t, err)
	assert.Equal(t, uint16(6446), o.BindPort)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "unknown routing config option", logs.All()[0].Message)
	assert.Equal(t, "frobnicate", logs.All()[0].ContextMap()["option"])
}

func TestLoadSectionAppliesAllNumericOptions(t *testing.T) {
	o, err := config.LoadSection(map[string]string{
		"destinations":           "localhost:3306",
		"mode":                   "read-only",
		"bind_port":              "6447",
		"connect_timeout":        "5",
		"max_connections":        "500",
		"max_connect_errors":     "10",
		"client_connect_timeout": "30",
		"net_buffer_length":      "32768",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint16(5), o.ConnectTimeout)
	assert.Equal(t, uint16(500), o.MaxConnections)
	assert.Equal(t, uint32(10), o.MaxConnectErrors)
	assert.Equal(t, uint32(30), o.ClientConnectTimeout)
	assert.Equal(t, uint32(32768), o.NetBufferLength)
}
