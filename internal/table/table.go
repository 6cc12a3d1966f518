// Package table defines the normalized tabular representation shared by every
// parsed source: an ordered sequence of rows whose cells are addressed by
// integer column index, plus an optional header. Cells hold one of int64,
// float64, string, time.Time, or nil.
package table

// Row is a single heterogeneous tuple of cells.
type Row []any

// Table is an in-memory worksheet.
type Table struct {
	Header []string
	Rows   []Row
}

// New creates an empty table with the given header labels.
func New(header ...string) *Table {
	return &Table{Header: header}
}

// Append adds a row built from the given cells.
func (t *Table) Append(cells ...any) {
	t.Rows = append(t.Rows, Row(cells))
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// At returns the cell at (row, col), or nil when the address is out of range.
func (t *Table) At(row, col int) any {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return nil
	}
	return r[col]
}

// Column returns all cells of the given column, one per row. Rows shorter
// than col contribute nil.
func (t *Table) Column(col int) []any {
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		if col >= 0 && col < len(r) {
			out[i] = r[col]
		}
	}
	return out
}

// DropEmptyRows removes rows whose cells are all nil or blank strings.
// Scraped HTML tables often carry stray separator rows.
func (t *Table) DropEmptyRows() {
	kept := t.Rows[:0]
	for _, r := range t.Rows {
		if !rowEmpty(r) {
			kept = append(kept, r)
		}
	}
	t.Rows = kept
}

func rowEmpty(r Row) bool {
	for _, c := range r {
		switch v := c.(type) {
		case nil:
			continue
		case string:
			if v != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}
