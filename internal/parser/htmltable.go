package parser

import (
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gpwtool/gpwmon/internal/convert"
	"github.com/gpwtool/gpwmon/internal/table"
)

// HTMLTable extracts one table from an HTML page. Selecting rows through
// every tbody of the chosen table flattens pages that split one logical
// table across repeated tbody elements.
type HTMLTable struct {
	// Index selects which <table> element of the document to extract.
	Index int
	// Converters are applied per physical column after extraction.
	Converters map[int]convert.CellFunc
}

// Parse implements Parser.
func (p *HTMLTable) Parse(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	sel := doc.Find("table").Eq(p.Index)
	if sel.Length() == 0 {
		return nil, parseErrorf(path, "table %d not found in document", p.Index)
	}

	t := &table.Table{}
	sel.Find("thead th").Each(func(_ int, th *goquery.Selection) {
		t.Header = append(t.Header, convert.Trim(th.Text()))
	})

	sel.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		var row table.Row
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			row = append(row, convert.Trim(td.Text()))
		})
		t.Rows = append(t.Rows, row)
	})
	// Tables without an explicit tbody still need their rows.
	if len(t.Rows) == 0 {
		sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var row table.Row
			tr.Find("td").Each(func(_ int, td *goquery.Selection) {
				row = append(row, convert.Trim(td.Text()))
			})
			if len(row) > 0 {
				t.Rows = append(t.Rows, row)
			}
		})
	}

	t.DropEmptyRows()
	applyConverters(t, p.Converters)
	return t, nil
}

// applyConverters runs per-column cell converters over the whole table.
func applyConverters(t *table.Table, convs map[int]convert.CellFunc) {
	if len(convs) == 0 {
		return
	}
	for _, row := range t.Rows {
		for col, fn := range convs {
			if col >= 0 && col < len(row) {
				row[col] = fn(row[col])
			}
		}
	}
}

// textOrNil trims s and maps the empty result to a nil cell.
func textOrNil(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
