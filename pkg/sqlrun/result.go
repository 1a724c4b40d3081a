package sqlrun

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"time"
)

// headerSniffRows is the number of rows read before the headers are fixed.
const headerSniffRows = 3

type (
	// Row is an ordered mapping of column name to value.
	//
	// Values are nil, string, int64, float64, bool or any driver specific
	// scalar. Binary values are converted to strings and times to RFC 3339
	// strings when the row is read.
	Row struct {
		keys   []string
		values map[string]any
	}

	// Result holds every row returned by a statement.
	Result struct {
		// Headers are the keys of the first row, in column order
		Headers []string

		// Rows in the order they were returned
		Rows []*Row
	}
)

// NewRow creates an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]any)}
}

// Set assigns a value. A new key is appended; an existing key keeps its
// position and takes the new value.
func (r *Row) Set(key string, value any) *Row {
	if r.values == nil {
		r.values = make(map[string]any)
	}

	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}

	r.values[key] = value
	return r
}

// Get returns the value for key.
func (r *Row) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the column names in order.
func (r *Row) Keys() []string {
	return r.keys
}

// MarshalJSON encodes the row as an object preserving column order. HTML
// characters are not escaped.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		if err := encodeJSON(&buf, key); err != nil {
			return nil, err
		}

		buf.WriteByte(':')

		if err := encodeJSON(&buf, r.values[key]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return err
	}

	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

// collect reads every row. Headers are sniffed from the first rows, which are
// kept in the result.
func collect(rows *sql.Rows) (*Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for len(res.Rows) < headerSniffRows && rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return nil, err
		}

		if res.Headers == nil {
			res.Headers = row.Keys()
		}
		res.Rows = append(res.Rows, row)
	}

	for rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return nil, err
		}

		res.Rows = append(res.Rows, row)
	}

	return res, rows.Err()
}

func scanRow(rows *sql.Rows, columns []string) (*Row, error) {
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := NewRow()
	for i, col := range columns {
		row.Set(col, normalize(values[i]))
	}

	return row, nil
}

func normalize(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		return val
	}
}
