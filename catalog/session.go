package catalog

import (
	"context"
	"time"
)

// Row is a single result row, positionally addressed. Implementations
// return the zero value (empty string / 0) for a column whose underlying
// value is SQL NULL, alongside a false "present" flag from NullString.
type Row interface {
	// NullString returns the column's textual value and whether it was
	// non-null. A null column yields ("", false).
	NullString(col int) (string, bool)

	// Float64 coerces the column to a float64. A null column yields 0.
	Float64(col int) float64

	// Uint32 coerces the column to a uint32. A null column yields 0.
	Uint32(col int) uint32
}

// RowFunc is called once per row returned by a query. Returning false
// stops iteration without producing an error; returning a non-nil error
// stops iteration and that error is returned from Query.
type RowFunc func(row Row) (bool, error)

// Session is a single connection to one database node. It is not safe for
// concurrent use — the metadata fetcher owns each session exclusively
// from its single refresh goroutine.
type Session interface {
	// Connect opens the underlying connection. A failure here is always a
	// *types.ConnectError.
	Connect(ctx context.Context, host string, port uint16, user, password string, timeout time.Duration) error

	// Query executes sql as a plain-text statement and invokes visit once
	// per returned row, positionally. A failure here is always a
	// *types.QueryError, except when visit itself returns a non-nil error,
	// which propagates unchanged.
	Query(ctx context.Context, sql string, visit RowFunc) error

	// Close releases the underlying connection. Idempotent.
	Close() error
}

// SessionFactory creates new, unconnected Session values.
//
// This is the sole seam between the metadata fetcher and the concrete
// database client: the fetcher never constructs a Session directly, so
// tests can supply a factory that hands out scripted fakes.
type SessionFactory interface {
	Create() Session
}
