package parser

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/gpwtool/gpwmon/internal/convert"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "archive.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestXLSWorkbookParse(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Data", "Nazwa", "Kurs zamknięcia"},
		{"2022-03-11", "ALIOR", "36,90"},
		{"2022-03-11", "KGHM", "120,00"},
	})
	p := &XLSWorkbook{
		HeaderRows: 1,
		Converters: map[int]convert.CellFunc{2: convert.ToFloat},
	}
	tbl, err := p.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("got %d rows, want 2", tbl.Len())
	}
	if tbl.Header[1] != "Nazwa" {
		t.Errorf("header = %v", tbl.Header)
	}
	if got := tbl.At(0, 2); got != 36.9 {
		t.Errorf("closing = %v, want 36.9", got)
	}
}

func TestXLSWorkbookNoDataSentinel(t *testing.T) {
	path := writeFixture(t, "nodata.xls",
		"<html><body>"+NoDataSentinel+"</body></html>")
	p := &XLSWorkbook{HeaderRows: 1}
	tbl, err := p.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tbl != nil {
		t.Fatalf("expected nil table for no-data page, got %v", tbl)
	}
}

func TestXLSWorkbookDetectsLegacyContainer(t *testing.T) {
	ole := append([]byte(nil), oleMagic...)
	ole = append(ole, make([]byte, 64)...)
	if !legacyWorkbook(ole) {
		t.Error("OLE compound document not recognized as legacy workbook")
	}
	if legacyWorkbook([]byte("PK\x03\x04 the rest of a zip")) {
		t.Error("OOXML zip misrecognized as legacy workbook")
	}
	if legacyWorkbook(nil) {
		t.Error("empty payload misrecognized as legacy workbook")
	}
}

func TestXLSWorkbookLegacyPayloadSkipsOOXMLReader(t *testing.T) {
	// A truncated OLE container must be handed to the BIFF reader, not
	// rejected by the OOXML one as an unsupported format.
	payload := append([]byte(nil), oleMagic...)
	payload = append(payload, bytes.Repeat([]byte{0}, 512)...)
	path := filepath.Join(t.TempDir(), "archive.xls")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatal(err)
	}
	p := &XLSWorkbook{HeaderRows: 1}
	_, err := p.Parse(path)
	if err == nil {
		t.Fatal("expected error for truncated legacy workbook")
	}
	if strings.Contains(err.Error(), "unsupported workbook file format") {
		t.Fatalf("legacy payload reached the OOXML reader: %v", err)
	}
}

func TestXLSWorkbookGarbage(t *testing.T) {
	path := writeFixture(t, "garbage.xls", "definitely not a workbook")
	p := &XLSWorkbook{HeaderRows: 1}
	_, err := p.Parse(path)
	if err == nil {
		t.Fatal("expected error for non-workbook payload")
	}
}
