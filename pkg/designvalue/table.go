// Package designvalue applies a Gumbel design-value estimator to grouped
// station records: an in-memory table of annual extremes is partitioned
// by station, each partition is fitted independently, and the resulting
// design value is attached to every row of its partition.
package designvalue

import (
	"errors"
	"fmt"
)

// ErrInvalidInput indicates a malformed table argument: a missing or
// empty schema, an unknown column name, a row of the wrong width, or a
// non-numeric value cell.
var ErrInvalidInput = errors.New("invalid table input")

// Table is an ordered collection of rows over a fixed set of named
// columns. Group keys may be any comparable value (station identifiers
// are typically ints or strings); other columns carry arbitrary
// passthrough data. Tables used as transform input are never mutated.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]interface{}
}

// NewTable creates an empty table with the given column schema.
func NewTable(columns ...string) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range t.columns {
		t.index[c] = i
	}
	return t
}

// Columns returns a copy of the table's column names, in schema order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// HasColumn reports whether the schema contains the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.rows) }

// AppendRow adds a row. The number of values must match the schema.
func (t *Table) AppendRow(values ...interface{}) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("%w: row has %d values, schema has %d columns", ErrInvalidInput, len(values), len(t.columns))
	}
	t.rows = append(t.rows, append([]interface{}(nil), values...))
	return nil
}

// Value returns the cell at the given row and column.
func (t *Table) Value(row int, column string) (interface{}, error) {
	i, ok := t.index[column]
	if !ok {
		return nil, fmt.Errorf("%w: no column %q", ErrInvalidInput, column)
	}
	if row < 0 || row >= len(t.rows) {
		return nil, fmt.Errorf("%w: row %d out of range", ErrInvalidInput, row)
	}
	return t.rows[row][i], nil
}

// Float returns the cell at the given row and column as a float64.
func (t *Table) Float(row int, column string) (float64, error) {
	v, err := t.Value(row, column)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("%w: column %q row %d holds non-numeric %T", ErrInvalidInput, column, row, v)
	}
	return f, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}
