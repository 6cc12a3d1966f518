package parser

import (
	"bytes"
	"errors"
	"os"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"github.com/gpwtool/gpwmon/internal/convert"
	"github.com/gpwtool/gpwmon/internal/table"
)

// NoDataSentinel is the phrase the exchange embeds in the HTML error page it
// serves instead of a workbook when a date has no quotations.
const NoDataSentinel = "Brak danych dla wybranych kryteriów."

// oleMagic opens every OLE compound document, the container format of
// pre-2007 BIFF workbooks. The exchange still serves its archives in it.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// XLSWorkbook reads the first sheet of a downloaded workbook, accepting both
// legacy BIFF .xls files and OOXML .xlsx files. When the file is the
// exchange's "no data for criteria" page instead, Parse returns nil.
type XLSWorkbook struct {
	// HeaderRows counts leading rows treated as the header (usually 1).
	HeaderRows int
	// Converters are applied per physical column after extraction.
	Converters map[int]convert.CellFunc
}

// Parse implements Parser.
func (p *XLSWorkbook) Parse(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if bytes.Contains(data, []byte(NoDataSentinel)) {
		return nil, nil
	}

	var rows [][]string
	if legacyWorkbook(data) {
		rows, err = legacyRows(data)
	} else {
		rows, err = ooxmlRows(data)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	headerRows := p.HeaderRows
	if headerRows < 0 || headerRows > len(rows) {
		headerRows = 0
	}

	t := &table.Table{}
	if headerRows > 0 {
		for _, label := range rows[headerRows-1] {
			t.Header = append(t.Header, convert.Trim(label))
		}
	}
	for _, raw := range rows[headerRows:] {
		row := make(table.Row, len(raw))
		for i, cell := range raw {
			row[i] = textOrNil(cell)
		}
		t.Rows = append(t.Rows, row)
	}

	t.DropEmptyRows()
	applyConverters(t, p.Converters)
	return t, nil
}

// legacyWorkbook reports whether the payload is an OLE compound document.
func legacyWorkbook(data []byte) bool {
	return bytes.HasPrefix(data, oleMagic)
}

func ooxmlRows(data []byte) ([][]string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}
	return wb.GetRows(sheet)
}

func legacyRows(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	sheet, err := wb.GetSheet(0)
	if err != nil {
		return nil, err
	}

	var out [][]string
	for i := 0; i <= sheet.GetNumberRows(); i++ {
		row, err := sheet.GetRow(i)
		if err != nil {
			continue
		}
		cells := row.GetCols()
		line := make([]string, len(cells))
		for j, cell := range cells {
			line[j] = cell.GetString()
		}
		out = append(out, line)
	}
	return out, nil
}
