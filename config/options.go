package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shiyingzhe/mysql-router/destination"
	"github.com/shiyingzhe/mysql-router/types"
)

// Options holds a single routing instance's validated configuration.
type Options struct {
	// Destination is the parsed form of the destinations option.
	Destination types.DestinationSpec

	// Mode is the configured access mode: ReadWrite or ReadOnly.
	Mode types.ServerMode

	// BindHost/BindPort are the resolved TCP listen address. BindPort is
	// 0 when neither bind_address nor bind_port carried a port.
	BindHost string
	BindPort uint16

	// Socket is the Unix domain socket path, empty when unset.
	Socket string

	ConnectTimeout       uint16
	MaxConnections       uint16
	MaxConnectErrors     uint32
	ClientConnectTimeout uint32
	NetBufferLength      uint32

	bindAddressRaw string
	bindAddressSet bool
	bindPortSet    bool
}

const (
	defaultBindAddress          = "0.0.0.0"
	defaultConnectTimeout       = 1
	defaultMaxConnections       = 100
	defaultMaxConnectErrors     = 100
	defaultClientConnectTimeout = 9
	minClientConnectTimeout     = 2
	maxClientConnectTimeout     = 31_536_000
	defaultNetBufferLength      = 16384
	minNetBufferLength          = 1024
	maxNetBufferLength          = 1_048_576
)

// Option configures Options during New.
type Option func(*Options)

// WithBindAddress sets the bind_address option. addr may be a bare host
// or "host:port"; a port here takes precedence over WithBindPort.
func WithBindAddress(addr string) Option {
	return func(o *Options) {
		o.bindAddressRaw = addr
		o.bindAddressSet = true
	}
}

// WithBindPort sets the bind_port option, used as the listen port when
// bind_address carries none of its own.
func WithBindPort(port uint16) Option {
	return func(o *Options) {
		o.BindPort = port
		o.bindPortSet = true
	}
}

// WithSocket sets the socket path option.
func WithSocket(path string) Option {
	return func(o *Options) {
		o.Socket = path
	}
}

// WithConnectTimeout sets connect_timeout, in seconds. Default 1.
func WithConnectTimeout(seconds uint16) Option {
	return func(o *Options) {
		o.ConnectTimeout = seconds
	}
}

// WithMaxConnections sets max_connections. Default 100.
func WithMaxConnections(n uint16) Option {
	return func(o *Options) {
		o.MaxConnections = n
	}
}

// WithMaxConnectErrors sets max_connect_errors. Default 100.
func WithMaxConnectErrors(n uint32) Option {
	return func(o *Options) {
		o.MaxConnectErrors = n
	}
}

// WithClientConnectTimeout sets client_connect_timeout, in seconds.
// Default 9.
func WithClientConnectTimeout(seconds uint32) Option {
	return func(o *Options) {
		o.ClientConnectTimeout = seconds
	}
}

// WithNetBufferLength sets net_buffer_length, in bytes. Default 16384.
func WithNetBufferLength(n uint32) Option {
	return func(o *Options) {
		o.NetBufferLength = n
	}
}

// New validates a routing instance's configuration. destinations and
// mode are required per §4.4; every other option is optional and
// defaults as documented on its With* function.
func New(destinations, mode string, opts ...Option) (*Options, error) {
	spec, err := destination.Parse(destinations)
	if err != nil {
		return nil, err
	}

	serverMode, ok := types.ParseServerMode(strings.ToLower(strings.TrimSpace(mode)))
	if !ok {
		return nil, &types.ConfigError{Option: "mode", Cause: fmt.Errorf("invalid mode '%s'", mode)}
	}

	o := &Options{
		Destination:          spec,
		Mode:                 serverMode,
		BindHost:             defaultBindAddress,
		ConnectTimeout:       defaultConnectTimeout,
		MaxConnections:       defaultMaxConnections,
		MaxConnectErrors:     defaultMaxConnectErrors,
		ClientConnectTimeout: defaultClientConnectTimeout,
		NetBufferLength:      defaultNetBufferLength,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.bindAddressSet {
		host, portStr, found := strings.Cut(o.bindAddressRaw, ":")
		o.BindHost = host
		if found {
			port, err := strconv.ParseUint(portStr, 10, 16)
			if err != nil || port == 0 {
				return nil, &types.ConfigError{Option: "bind_address", Cause: fmt.Errorf("invalid port in '%s'", o.bindAddressRaw)}
			}
			o.BindPort = uint16(port)
			o.bindPortSet = true
		}
	}

	if err := o.validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Options) validate() error {
	if !o.bindPortSet && o.Socket == "" {
		return &types.ConfigError{Option: "bind_address", Cause: fmt.Errorf("at least one of bind_address (with a port) or socket must be set")}
	}
	if o.bindPortSet && (o.BindPort < 1 || o.BindPort > 65535) {
		return &types.ConfigError{Option: "bind_port", Cause: fmt.Errorf("must be in 1..65535, got %d", o.BindPort)}
	}
	if o.ConnectTimeout < 1 {
		return &types.ConfigError{Option: "connect_timeout", Cause: fmt.Errorf("must be >= 1, got %d", o.ConnectTimeout)}
	}
	if o.MaxConnections < 1 {
		return &types.ConfigError{Option: "max_connections", Cause: fmt.Errorf("must be >= 1, got %d", o.MaxConnections)}
	}
	if o.MaxConnectErrors < 1 {
		return &types.ConfigError{Option: "max_connect_errors", Cause: fmt.Errorf("must be >= 1, got %d", o.MaxConnectErrors)}
	}
	if o.ClientConnectTimeout < minClientConnectTimeout || o.ClientConnectTimeout > maxClientConnectTimeout {
		return &types.ConfigError{Option: "client_connect_timeout", Cause: fmt.Errorf("must be in %d..%d, got %d", minClientConnectTimeout, maxClientConnectTimeout, o.ClientConnectTimeout)}
	}
	if o.NetBufferLength < minNetBufferLength || o.NetBufferLength > maxNetBufferLength {
		return &types.ConfigError{Option: "net_buffer_length", Cause: fmt.Errorf("must be in %d..%d, got %d", minNetBufferLength, maxNetBufferLength, o.NetBufferLength)}
	}
	return nil
}
