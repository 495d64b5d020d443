package parser

import "fmt"

// RawRow associates header column names with one record's values, in order.
type RawRow struct {
	values []string
	index  map[string]int
}

func newRawRow(names, values []string) (RawRow, error) {
	if len(names) != len(values) {
		return RawRow{}, fmt.Errorf("%w: header has %d columns, row has %d", ErrColumnCount, len(names), len(values))
	}
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	return RawRow{values: values, index: index}, nil
}

// Get returns the raw value of column.
func (r RawRow) Get(column string) (string, error) {
	i, ok := r.index[column]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingColumn, column)
	}
	return r.values[i], nil
}
