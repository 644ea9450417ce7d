package config

import (
	"fmt"
	"strconv"

	"github.com/shiyingzhe/mysql-router/internal/logging"
	"github.com/shiyingzhe/mysql-router/types"
)

// knownOptions is the full recognized surface of a routing[:instance]
// section, used to warn on anything else.
var knownOptions = map[string]bool{
	"destinations":           true,
	"bind_port":              true,
	"bind_address":           true,
	"socket":                 true,
	"mode":                   true,
	"connect_timeout":        true,
	"max_connections":        true,
	"max_connect_errors":     true,
	"client_connect_timeout": true,
	"net_buffer_length":      true,
}

// LoadSection builds an *Options from a routing[:instance] config
// section's raw key/value pairs. Unknown keys are logged as a warning,
// not an error; a missing required option (destinations, mode) is a
// startup error naming the option.
func LoadSection(section map[string]string, logger types.Logger) (*Options, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	for key := range section {
		if !knownOptions[key] {
			logger.Warn("unknown routing config option", "option", key)
		}
	}

	destinations, ok := section["destinations"]
	if !ok || destinations == "" {
		return nil, &types.ConfigError{Option: "destinations", Cause: fmt.Errorf("required option not set")}
	}
	mode, ok := section["mode"]
	if !ok || mode == "" {
		return nil, &types.ConfigError{Option: "mode", Cause: fmt.Errorf("required option not set")}
	}

	var opts []Option

	if v, ok := section["bind_address"]; ok {
		opts = append(opts, WithBindAddress(v))
	}
	if v, ok := section["bind_port"]; ok {
		port, err := parseUint16(v)
		if err != nil {
			return nil, &types.ConfigError{Option: "bind_port", Cause: err}
		}
		opts = append(opts, WithBindPort(port))
	}
	if v, ok := section["socket"]; ok {
		opts = append(opts, WithSocket(v))
	}
	if v, ok := section["connect_timeout"]; ok {
		n, err := parseUint16(v)
		if err != nil {
			return nil, &types.ConfigError{Option: "connect_timeout", Cause: err}
		}
		opts = append(opts, WithConnectTimeout(n))
	}
	if v, ok := section["max_connections"]; ok {
		n, err := parseUint16(v)
		if err != nil {
			return nil, &types.ConfigError{Option: "max_connections", Cause: err}
		}
		opts = append(opts, WithMaxConnections(n))
	}
	if v, ok := section["max_connect_errors"]; ok {
		n, err := parseUint32(v)
		if err != nil {
			return nil, &types.ConfigError{Option: "max_connect_errors", Cause: err}
		}
		opts = append(opts, WithMaxConnectErrors(n))
	}
	if v, ok := section["client_connect_timeout"]; ok {
		n, err := parseUint32(v)
		if err != nil {
			return nil, &types.ConfigError{Option: "client_connect_timeout", Cause: err}
		}
		opts = append(opts, WithClientConnectTimeout(n))
	}
	if v, ok := section["net_buffer_length"]; ok {
		n, err := parseUint32(v)
		if err != nil {
			return nil, &types.ConfigError{Option: "net_buffer_length", Cause: err}
		}
		opts = append(opts, WithNetBufferLength(n))
	}

	return New(destinations, mode, opts...)
}

func parseUint16(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid unsigned integer '%s': %w", s, err)
	}
	return uint16(n), nil
}

func parseUint32(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid unsigned integer '%s': %w", s, err)
	}
	return uint32(n), nil
}
