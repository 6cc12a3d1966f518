package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gpwtool/gpwmon/internal/table"
)

// Export writes a result table to path in a format inferred from the file
// extension: .json, .csv, .xlsx, or .xls. The .xls output uses the OOXML
// encoding under the legacy extension; spreadsheet applications open it the
// same way.
func Export(t *table.Table, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return exportJSON(t, path)
	case ".csv":
		return table.WriteCSV(t, path)
	case ".xlsx", ".xls":
		return exportWorkbook(t, path)
	default:
		return fmt.Errorf("unsupported export extension %q", filepath.Ext(path))
	}
}

func exportJSON(t *table.Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	records := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]any, len(t.Header))
		for i, name := range t.Header {
			if i < len(row) {
				rec[name] = row[i]
			}
		}
		records = append(records, rec)
	}
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return os.WriteFile(path, raw, 0o644)
}

func exportWorkbook(t *table.Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]any, len(t.Header))
	for i, name := range t.Header {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		cells := append([]any(nil), row...)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
