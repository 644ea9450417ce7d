package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"

	"github.com/shiyingzhe/mysql-router/catalog"
	"github.com/shiyingzhe/mysql-router/types"
)

// Session is a database/sql-backed catalog.Session talking to one node
// over the go-sql-driver/mysql wire protocol.
type Session struct {
	db *sql.DB
}

var _ catalog.Session = (*Session)(nil)

// Factory hands out unconnected *Session values.
type Factory struct{}

var _ catalog.SessionFactory = Factory{}

// Create returns a new, unconnected Session.
func (Factory) Create() catalog.Session {
	return &Session{}
}

// Connect opens a connection to host:port and verifies it with a ping
// bounded by timeout. On any failure it returns a *types.ConnectError.
func (s *Session) Connect(ctx context.Context, host string, port uint16, user, password string, timeout time.Duration) error {
	cfg := mysqldriver.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", host, port)
	cfg.Timeout = timeout
	cfg.ReadTimeout = timeout
	cfg.WriteTimeout = timeout
	cfg.ParseTime = false
	cfg.InterpolateParams = true

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return &types.ConnectError{Host: host, Port: port, Cause: err}
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return &types.ConnectError{Host: host, Port: port, Cause: err}
	}

	s.db = db
	return nil
}

// Query runs sql as a plain-text statement and visits each row.
func (s *Session) Query(ctx context.Context, query string, visit catalog.RowFunc) error {
	if s.db == nil {
		return &types.QueryError{Query: query, Cause: types.ErrSessionClosed}
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return &types.QueryError{Query: query, Cause: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return &types.QueryError{Query: query, Cause: err}
	}

	vals := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return &types.QueryError{Query: query, Cause: err}
		}
		cont, err := visit(nullStringRow(vals))
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return &types.QueryError{Query: query, Cause: err}
	}
	return nil
}

// Close releases the underlying connection. Idempotent.
func (s *Session) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// nullStringRow adapts a scanned []sql.NullString to catalog.Row,
// coercing numeric columns from their textual representation. The MySQL
// driver happily converts any column type to a string on Scan, so this
// keeps the row contract independent of each query's column types.
type nullStringRow []sql.NullString

func (r nullStringRow) NullString(col int) (string, bool) {
	v := r[col]
	return v.String, v.Valid
}

func (r nullStringRow) Float64(col int) float64 {
	v := r[col]
	if !v.Valid {
		return 0
	}
	f, _ := strconv.ParseFloat(v.String, 64)
	return f
}

func (r nullStringRow) Uint32(col int) uint32 {
	v := r[col]
	if !v.Valid {
		return 0
	}
	n, _ := strconv.ParseUint(v.String, 10, 32)
	return uint32(n)
}
