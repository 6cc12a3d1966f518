package analysis

import (
	"testing"
	"time"

	"github.com/gpwtool/gpwmon/internal/table"
)

func candleTable(rows ...table.Row) *table.Table {
	t := table.New("name", "date", "open", "high", "low", "close", "volume")
	t.Rows = rows
	return t
}

func candle(name string, open, cls float64) table.Row {
	return table.Row{name, time.Date(2022, 3, 11, 10, 0, 0, 0, time.UTC),
		open, cls, open, cls, 100.0}
}

func TestActivityCountsDirectionalBars(t *testing.T) {
	rows := []table.Row{
		// ALIOR: 6 bars, three with a move above 1%.
		candle("ALIOR", 100, 102),
		candle("ALIOR", 102, 100),
		candle("ALIOR", 100, 100.5),
		candle("ALIOR", 100.5, 100.5),
		candle("ALIOR", 100.5, 103),
		candle("ALIOR", 103, 103.1),
		// XTB: 5 flat bars.
		candle("XTB", 20, 20),
		candle("XTB", 20, 20),
		candle("XTB", 20, 20),
		candle("XTB", 20, 20),
		candle("XTB", 20, 20),
	}
	got := Activity(candleTable(rows...), 0.01)

	if got.Len() != 2 {
		t.Fatalf("rows = %d, want 2", got.Len())
	}
	if got.At(0, 0) != "ALIOR" {
		t.Errorf("most active = %v, want ALIOR", got.At(0, 0))
	}
	activity, _ := got.At(0, 1).(float64)
	if activity != 0.5 {
		t.Errorf("ALIOR activity = %v, want 0.5", activity)
	}
	if got.At(0, 2) != int64(3) {
		t.Errorf("ALIOR price_activity = %v, want 3", got.At(0, 2))
	}
	if got.At(1, 0) != "XTB" {
		t.Errorf("row 1 = %v, want XTB", got.At(1, 0))
	}
	if v, _ := got.At(1, 4).(float64); v != 0 {
		t.Errorf("flat stock change_var = %v, want 0", v)
	}
}

func TestActivityDropsThinNames(t *testing.T) {
	rows := []table.Row{
		candle("THIN", 10, 11),
		candle("THIN", 11, 12),
	}
	for i := 0; i < minActivityBars; i++ {
		rows = append(rows, candle("FAT", 10, 10))
	}
	got := Activity(candleTable(rows...), 0.01)
	if got.Len() != 1 || got.At(0, 0) != "FAT" {
		t.Errorf("expected only FAT, got %d rows", got.Len())
	}
}

func TestActivitySkipsCorruptCells(t *testing.T) {
	rows := []table.Row{
		{"BAD", nil, "not a number", nil, nil, 10.0, nil},
		{"BAD", nil, 0.0, nil, nil, 10.0, nil}, // zero open would divide
	}
	for i := 0; i < minActivityBars; i++ {
		rows = append(rows, candle("GOOD", 10, 10))
	}
	got := Activity(candleTable(rows...), 0.01)
	if got.Len() != 1 || got.At(0, 0) != "GOOD" {
		t.Errorf("corrupt rows leaked into the result (%d rows)", got.Len())
	}
}

func TestActivityChangeSum(t *testing.T) {
	rows := []table.Row{
		candle("AAA", 100, 110), // +0.10
		candle("AAA", 100, 90),  // -0.10
		candle("AAA", 100, 105), // +0.05
		candle("AAA", 100, 100),
		candle("AAA", 100, 100),
	}
	got := Activity(candleTable(rows...), 0.5)
	sum, _ := got.At(0, 3).(float64)
	if sum < 0.05-1e-9 || sum > 0.05+1e-9 {
		t.Errorf("change_sum = %v, want 0.05", sum)
	}
	// Threshold 0.5 means no bar is directional.
	if a, _ := got.At(0, 1).(float64); a != 0 {
		t.Errorf("activity = %v, want 0", a)
	}
}
