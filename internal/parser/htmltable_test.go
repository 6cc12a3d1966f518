package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gpwtool/gpwmon/internal/convert"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const stocksPage = `<html><body>
<table><tbody><tr><td>ignored</td></tr></tbody></table>
<table>
 <thead><tr><th>Nazwa</th><th>Kurs</th><th>Zmiana</th></tr></thead>
 <tbody>
  <tr><td>ALIOR</td><td>36,90</td><td>-0,37%</td></tr>
  <tr><td>CDPROJEKT</td><td>118,50</td><td>1,02%</td></tr>
 </tbody>
 <tbody>
  <tr><td>KGHM</td><td>120,00</td><td>0,00%</td></tr>
  <tr><td></td><td></td><td></td></tr>
 </tbody>
</table>
</body></html>`

func TestHTMLTableFlattensRepeatedTbody(t *testing.T) {
	path := writeFixture(t, "stocks.html", stocksPage)
	p := &HTMLTable{
		Index: 1,
		Converters: map[int]convert.CellFunc{
			1: convert.ToFloat,
			2: convert.ToPercentage,
		},
	}
	tbl, err := p.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("got %d rows, want 3 (empty row dropped, both tbodys read)", tbl.Len())
	}
	if got := tbl.At(0, 1); got != 36.9 {
		t.Errorf("converted price = %v, want 36.9", got)
	}
	if got := tbl.At(0, 2); got != -0.37 {
		t.Errorf("converted change = %v, want -0.37", got)
	}
	if got := tbl.At(2, 0); got != "KGHM" {
		t.Errorf("second tbody row = %v, want KGHM", got)
	}
	if len(tbl.Header) != 3 || tbl.Header[0] != "Nazwa" {
		t.Errorf("header = %v", tbl.Header)
	}
}

func TestHTMLTableMissingIndex(t *testing.T) {
	path := writeFixture(t, "one.html", `<html><table><tr><td>x</td></tr></table></html>`)
	p := &HTMLTable{Index: 3}
	_, err := p.Parse(path)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestHTMLTableNoTbody(t *testing.T) {
	path := writeFixture(t, "plain.html",
		`<html><table><tr><td>A</td><td>1</td></tr><tr><td>B</td><td>2</td></tr></table></html>`)
	p := &HTMLTable{Index: 0}
	tbl, err := p.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tbl.Len() != 2 || tbl.At(1, 0) != "B" {
		t.Fatalf("rows = %v", tbl.Rows)
	}
}
