package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// cellTimeFormat is used when a timestamp cell is rendered as text.
const cellTimeFormat = "2006-01-02 15:04:05"

// FormatCell renders a cell as text for delimited output.
func FormatCell(c any) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(cellTimeFormat)
	default:
		return fmt.Sprint(v)
	}
}

// WriteCSV writes the table to path as UTF-8 comma-separated text with the
// header as the first record. Parent directories are created as needed.
func WriteCSV(t *Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(t.Header) > 0 {
		if err := w.Write(t.Header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	record := make([]string, 0, len(t.Header))
	for _, row := range t.Rows {
		record = record[:0]
		for _, c := range row {
			record = append(record, FormatCell(c))
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
