package worksheet

import (
	"github.com/gpwtool/gpwmon/internal/convert"
	"github.com/gpwtool/gpwmon/internal/table"
)

// Queries are read-only: they never mutate the underlying table. They operate
// on the currently loaded worksheet and return ErrNotLoaded before the first
// successful load.

// ValueAt returns the cell of the given semantic column at row.
func (d *DAO) ValueAt(c Column, row int) (any, error) {
	t, err := d.cached()
	if err != nil {
		return nil, err
	}
	idx, err := d.ColumnIndex(c)
	if err != nil {
		return nil, err
	}
	return t.At(row, idx), nil
}

// RowByKey returns the index of the first row whose cell in the key column
// equals key. The key is coerced to the cell's type before comparison.
func (d *DAO) RowByKey(c Column, key any) (int, bool, error) {
	t, err := d.cached()
	if err != nil {
		return 0, false, err
	}
	idx, err := d.ColumnIndex(c)
	if err != nil {
		return 0, false, err
	}
	for i := range t.Rows {
		if cellEquals(t.At(i, idx), key) {
			return i, true, nil
		}
	}
	return 0, false, nil
}

// Lookup is the join shortcut: it finds the row keyed by (keyCol, key) and
// returns that row's cell in target, or nil when no row matches.
func (d *DAO) Lookup(keyCol Column, key any, target Column) (any, error) {
	row, ok, err := d.RowByKey(keyCol, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return d.ValueAt(target, row)
}

// FilterNumeric returns the subset of rows whose cell in col is numeric,
// preserving order. The input table is not modified.
func FilterNumeric(t *table.Table, col int) *table.Table {
	out := &table.Table{Header: t.Header}
	for _, row := range t.Rows {
		if col >= 0 && col < len(row) && convert.IsNumeric(row[col]) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// cellEquals compares a cell against a key, coercing the key side to the
// cell's type for numeric cells.
func cellEquals(cell, key any) bool {
	if cell == nil || key == nil {
		return cell == nil && key == nil
	}
	switch c := cell.(type) {
	case float64:
		if k, ok := asFloat(key); ok {
			return c == k
		}
	case int64:
		if k, ok := asFloat(key); ok {
			return float64(c) == k
		}
	}
	return cell == key
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
