package catalog

import (
	"strconv"
	"time"
)

// RowSet is a fully materialized query result.
type RowSet struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (rs *RowSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// Index returns the position of column, or -1.
func (rs *RowSet) Index(column string) int {
	for i, c := range rs.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Value returns row i's value for column, or nil when the column is unknown.
func (rs *RowSet) Value(i int, column string) any {
	idx := rs.Index(column)
	if idx < 0 || i >= len(rs.Rows) || idx >= len(rs.Rows[i]) {
		return nil
	}
	return rs.Rows[i][idx]
}

// Int64 returns row i's value for column as an integer. ok is false for NULL.
func (rs *RowSet) Int64(i int, column string) (int64, bool) {
	return AsInt64(rs.Value(i, column))
}

// AsInt64 converts the integer shapes drivers hand back into int64.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	case []byte:
		i, err := strconv.ParseInt(string(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

// AsFloat64 converts numeric driver values (including DECIMAL text) into float64.
func AsFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	}
	if i, ok := AsInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}

// Text renders a driver value for display. NULL renders as "".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	if i, ok := AsInt64(v); ok {
		return strconv.FormatInt(i, 10)
	}
	return ""
}
