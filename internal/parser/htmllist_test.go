package parser

import (
	"testing"
	"time"
)

const espiPage = `<html><body><ul class="reports">
 <li>
  <span class="date">11-03-2022 17:05:12 | bieżący</span>
  <span class="name">ALIOR BANK S.A. (PLALIOR00045)</span>
  <a href="/node/12345">Raport bieżący 7/2022</a>
 </li>
 <li>
  <span class="date">11-03-2022 16:40:01</span>
  <span class="name">KGHM POLSKA MIEDŹ S.A.</span>
  <a href="https://espi.example/node/12346">Raport okresowy</a>
 </li>
 <li></li>
</ul></body></html>`

func TestHTMLListParse(t *testing.T) {
	path := writeFixture(t, "espi.html", espiPage)
	p := &HTMLList{BaseURL: "https://espi.example"}
	tbl, err := p.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("got %d rows, want 2", tbl.Len())
	}

	if got := tbl.At(0, 0); got != "ALIOR BANK S.A. (PLALIOR00045)" {
		t.Errorf("name = %v", got)
	}
	if got := tbl.At(0, 1); got != "PLALIOR00045" {
		t.Errorf("isin = %v, want PLALIOR00045", got)
	}
	wantDate := time.Date(2022, 3, 11, 17, 5, 12, 0, time.UTC)
	if got, ok := tbl.At(0, 2).(time.Time); !ok || !got.Equal(wantDate) {
		t.Errorf("date = %v, want %v (pipe annotation discarded)", tbl.At(0, 2), wantDate)
	}
	if got := tbl.At(0, 4); got != "https://espi.example/node/12345" {
		t.Errorf("url = %v", got)
	}

	// Second item: no ISIN, absolute URL untouched.
	if got := tbl.At(1, 1); got != nil {
		t.Errorf("isin = %v, want nil", got)
	}
	if got := tbl.At(1, 4); got != "https://espi.example/node/12346" {
		t.Errorf("url = %v", got)
	}
}
