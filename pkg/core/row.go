package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TableInfo is a single entry of the table listing.
type TableInfo struct {
	Name string `json:"name"`
}

// Row is one result row. Columns and Values are parallel slices so the
// database's column order survives JSON encoding.
type Row struct {
	Columns []string
	Values  []any
}

// NewRow builds a row, normalizing driver values into JSON scalars.
func NewRow(columns []string, values []any) Row {
	normalized := make([]any, len(values))
	for i, v := range values {
		normalized[i] = NormalizeValue(v)
	}
	return Row{Columns: columns, Values: normalized}
}

// Get returns the value for a column.
func (r Row) Get(column string) (any, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return nil, false
}

// MarshalJSON encodes the row as a JSON object with keys in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	if len(r.Columns) != len(r.Values) {
		return nil, fmt.Errorf("row has %d columns but %d values", len(r.Columns), len(r.Values))
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NormalizeValue converts a value scanned from database/sql into a
// JSON-friendly scalar.
func NormalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case string, bool, int64, float64, int, int32, float32:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return val
	}
}
