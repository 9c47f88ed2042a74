package designvalue

import (
	"fmt"

	"github.com/pacificclimate/designvalues/pkg/gumbel"
)

// DerivedSuffix is appended to the value column's name to form the name
// of the derived design-value column.
const DerivedSuffix = "_design_val"

// GroupValue is a per-group summary row: one group key and the design
// value (or NaN sentinel) computed from that group's sample.
type GroupValue struct {
	Key   interface{}
	Value float64
}

// Transform partitions t by the distinct values of groupColumn, fits the
// estimator to each partition's valueColumn sample independently, and
// returns a new table with one extra column named valueColumn +
// DerivedSuffix holding each partition's design value, broadcast to all
// of its rows. Row count and row order are preserved and the input table
// is left untouched. Partitions share nothing: a station's design value
// depends only on that station's observations, whatever the row order.
//
// Stations whose records decline to fit, or whose fit is numerically
// degenerate, carry the NaN sentinel in the derived column. Callers must
// check for it rather than assume every station produced a number.
func Transform(t *Table, groupColumn, valueColumn string, est *gumbel.Estimator) (*Table, error) {
	parts, keys, rowKey, err := partitionTable(t, groupColumn, valueColumn)
	if err != nil {
		return nil, err
	}

	derived := make(map[interface{}]float64, len(keys))
	for _, key := range keys {
		derived[key] = est.FitTransform(parts[key])
	}

	out := NewTable(append(t.Columns(), valueColumn+DerivedSuffix)...)
	for i, row := range t.rows {
		appended := make([]interface{}, 0, len(row)+1)
		appended = append(appended, row...)
		appended = append(appended, derived[rowKey[i]])
		if err := out.AppendRow(appended...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// GroupDesignValues is the per-group summary form of Transform: one
// GroupValue per distinct group key, in order of first occurrence.
func GroupDesignValues(t *Table, groupColumn, valueColumn string, est *gumbel.Estimator) ([]GroupValue, error) {
	parts, keys, _, err := partitionTable(t, groupColumn, valueColumn)
	if err != nil {
		return nil, err
	}

	out := make([]GroupValue, 0, len(keys))
	for _, key := range keys {
		out = append(out, GroupValue{Key: key, Value: est.FitTransform(parts[key])})
	}
	return out, nil
}

// partitionTable splits t's valueColumn by groupColumn. It returns the
// per-group samples, the group keys in first-occurrence order, and each
// row's group key.
func partitionTable(t *Table, groupColumn, valueColumn string) (map[interface{}][]float64, []interface{}, []interface{}, error) {
	if t == nil || len(t.columns) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: transform requires a non-empty table schema", ErrInvalidInput)
	}
	gi, ok := t.index[groupColumn]
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: no group column %q", ErrInvalidInput, groupColumn)
	}
	vi, ok := t.index[valueColumn]
	if !ok {
		return nil, nil, nil, fmt.Errorf("%w: no value column %q", ErrInvalidInput, valueColumn)
	}

	parts := make(map[interface{}][]float64)
	var keys []interface{}
	rowKey := make([]interface{}, len(t.rows))

	for i, row := range t.rows {
		key := row[gi]
		rowKey[i] = key

		val, ok := toFloat(row[vi])
		if !ok {
			return nil, nil, nil, fmt.Errorf("%w: column %q row %d holds non-numeric %T", ErrInvalidInput, valueColumn, i, row[vi])
		}

		if _, seen := parts[key]; !seen {
			keys = append(keys, key)
		}
		parts[key] = append(parts[key], val)
	}

	return parts, keys, rowKey, nil
}
