package catalogtest

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/shiyingzhe/mysql-router/catalog"
)

// NewServerUUID returns a freshly generated, readable-but-unique
// server_uuid value for scripting fixtures that must not collide across
// a table-driven test's cases.
func NewServerUUID() string {
	return uuid.NewString()
}

// fakeRow is a positional row backed by a slice of Go values, with a nil
// element standing in for SQL NULL.
type fakeRow []any

// NewRow builds a catalog.Row from literal values, in column order. Pass
// nil for a NULL column.
func NewRow(values ...any) catalog.Row {
	return fakeRow(values)
}

func (r fakeRow) NullString(col int) (string, bool) {
	v := r[col]
	if v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

func (r fakeRow) Float64(col int) float64 {
	v := r[col]
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case int:
		return float64(t)
	case uint32:
		return float64(t)
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	default:
		return 0
	}
}

func (r fakeRow) Uint32(col int) uint32 {
	v := r[col]
	switch t := v.(type) {
	case nil:
		return 0
	case uint32:
		return t
	case int:
		return uint32(t)
	case float64:
		return uint32(t)
	case string:
		n, _ := strconv.ParseUint(t, 10, 32)
		return uint32(n)
	default:
		return 0
	}
}
