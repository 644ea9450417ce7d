package metadata

import (
	"time"

	"github.com/shiyingzhe/mysql-router/internal/logging"
	"github.com/shiyingzhe/mysql-router/internal/metrics"
	"github.com/shiyingzhe/mysql-router/types"
)

// fetcherConfig holds Fetcher configuration assembled by Option values.
type fetcherConfig struct {
	logger         types.Logger
	metrics        types.MetricsCollector
	tickInterval   time.Duration
	connectTimeout time.Duration
	queryTimeout   time.Duration
	user           string
	password       string
}

// defaultFetcherConfig returns a fetcherConfig with sensible defaults.
func defaultFetcherConfig() fetcherConfig {
	return fetcherConfig{
		logger:         logging.NewNopLogger(),
		metrics:        metrics.NewNopMetrics(),
		tickInterval:   5 * time.Second,
		connectTimeout: time.Second,
		queryTimeout:   time.Second,
	}
}

// Option configures a Fetcher.
type Option func(*fetcherConfig)

// WithLogger sets the structured logger used for warnings about
// unreachable nodes and discarded refresh cycles.
//
// If not set, a no-op logger is used that discards all messages.
func WithLogger(logger types.Logger) Option {
	return func(c *fetcherConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics collector used to report fetch outcomes
// and per-replica-set status.
//
// If not set, a no-op collector is used.
func WithMetrics(collector types.MetricsCollector) Option {
	return func(c *fetcherConfig) {
		c.metrics = collector
	}
}

// WithTickInterval sets the interval between refresh cycles when running
// under Run. Defaults to 5 seconds.
func WithTickInterval(d time.Duration) Option {
	return func(c *fetcherConfig) {
		c.tickInterval = d
	}
}

// WithConnectTimeout bounds how long a single session's Connect call may
// take. Defaults to 1 second.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *fetcherConfig) {
		c.connectTimeout = d
	}
}

// WithQueryTimeout bounds how long a single Query call may take.
// Defaults to 1 second.
func WithQueryTimeout(d time.Duration) Option {
	return func(c *fetcherConfig) {
		c.queryTimeout = d
	}
}

// WithCredentials sets the user/password used to authenticate to every
// candidate node. Defaults to an empty user and password.
func WithCredentials(user, password string) Option {
	return func(c *fetcherConfig) {
		c.user = user
		c.password = password
	}
}
