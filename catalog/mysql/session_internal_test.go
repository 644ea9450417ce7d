package mysql

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/shiyingzhe/mysql-router/catalog"
)

// These tests stand a sqlite3 in-memory database in for a live MySQL
// server: they exercise Session.Query's generic database/sql row
// scanning and NULL-coalescing without a real cluster, per §4.1's row
// visitor contract. Session.Connect itself is exercised separately
// against the real go-sql-driver/mysql in session_test.go.

func newSQLiteSession(t *testing.T) *Session {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE members (member_id TEXT, member_host TEXT, member_port INTEGER, weight REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO members VALUES ('i-1', '10.0.0.1', 3306, 1.5), (NULL, NULL, NULL, NULL)`)
	require.NoError(t, err)

	return &Session{db: db}
}

func TestSessionQueryScansRowsGenerically(t *testing.T) {
	s := newSQLiteSession(t)

	var ids []string
	var ports []uint32
	var weights []float64
	err := s.Query(context.Background(), "SELECT member_id, member_host, member_port, weight FROM members", func(row catalog.Row) (bool, error) {
		id, ok := row.NullString(0)
		ids = append(ids, id)
		require.Equal(t, id != "", ok)
		ports = append(ports, row.Uint32(2))
		weights = append(weights, row.Float64(3))
		return true, nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"i-1", ""}, ids)
	require.Equal(t, []uint32{3306, 0}, ports)
	require.Equal(t, []float64{1.5, 0}, weights)
}

func TestSessionQueryStopsWhenVisitorReturnsFalse(t *testing.T) {
	s := newSQLiteSession(t)

	var seen int
	err := s.Query(context.Background(), "SELECT member_id, member_host, member_port, weight FROM members", func(row catalog.Row) (bool, error) {
		seen++
		return false, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, seen)
}

func TestSessionQueryPropagatesInvalidSQL(t *testing.T) {
	s := newSQLiteSession(t)

	err := s.Query(context.Background(), "SELECT * FROM nonexistent_table", func(catalog.Row) (bool, error) {
		return true, nil
	})
	require.Error(t, err)
}
