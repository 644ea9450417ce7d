package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios. Where one of these applies,
// it is carried in the Cause chain of the wrapped errors below so callers
// can test with errors.Is without caring about the specific
// host/query/option involved.
var (
	// ErrNoSeedsReachable indicates every seed in a Connect call failed.
	ErrNoSeedsReachable = errors.New("router: no seed server was reachable")

	// ErrEmptyReplicaSet indicates the discovery protocol exhausted every
	// candidate node without a usable (Query #2, Query #3) pair.
	ErrEmptyReplicaSet = errors.New("router: unable to fetch live group_replication member data from any server")

	// ErrSessionClosed indicates an operation was attempted on a session
	// that has already been closed.
	ErrSessionClosed = errors.New("router: session is closed")

	// ErrInvalidDestination indicates the "destinations" option's value
	// could not be parsed as either a metadata-cache URI or an address
	// list.
	ErrInvalidDestination = errors.New("router: invalid destination specification")
)

// ConfigError wraps a failure to load or validate plugin configuration.
// It is the only error kind that is fatal at startup.
type ConfigError struct {
	// Option is the name of the offending configuration option.
	Option string
	Cause  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("router: option %s: %v", e.Option, e.Cause)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// ConnectError indicates a TCP-level or handshake failure while trying to
// open a session to a single node. It never reaches the dispatcher: the
// metadata fetcher's fallback loop recovers it locally.
type ConnectError struct {
	Host  string
	Port  uint16
	Cause error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("router: connect to %s:%d failed: %v", e.Host, e.Port, e.Cause)
}

func (e *ConnectError) Unwrap() error { return e.Cause }

// QueryError indicates a session was reachable but a query against it
// failed. Like ConnectError, it is recovered locally by the fetcher.
type QueryError struct {
	Query string
	Cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("router: query %q failed: %v", queryPrefix(e.Query), e.Cause)
}

func (e *QueryError) Unwrap() error { return e.Cause }

// MetadataError is the single error kind that escapes the metadata
// fetcher. Any ConnectError, QueryError or row-visitor error that survives
// the fallback loop is rewrapped as a MetadataError before it reaches the
// caller, so downstream code has exactly one kind to handle.
type MetadataError struct {
	ReplicaSet string
	Cause      error
}

func (e *MetadataError) Error() string {
	if e.ReplicaSet == "" {
		return fmt.Sprintf("router: metadata fetch failed: %v", e.Cause)
	}
	return fmt.Sprintf("router: metadata fetch failed for replicaset '%s': %v", e.ReplicaSet, e.Cause)
}

func (e *MetadataError) Unwrap() error { return e.Cause }

// queryPrefix truncates a query string for error messages so a full table
// scan or long IN-list doesn't flood the logs.
func queryPrefix(q string) string {
	const max = 48
	if len(q) <= max {
		return q
	}
	return q[:max] + "..."
}
