package calendar

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsHoliday(t *testing.T) {
	cal, err := Open(filepath.Join(t.TempDir(), "holidays.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"regular friday", day(2022, time.March, 11), false},
		{"saturday", day(2022, time.March, 12), true},
		{"sunday", day(2022, time.March, 13), true},
		{"before first session", day(1991, time.April, 15), true},
		{"first session day", day(1991, time.April, 16), false},
		{"past maintained range", day(2023, time.January, 2), false},
	}
	for _, tt := range tests {
		if got := cal.IsHoliday(tt.day); got != tt.want {
			t.Errorf("%s: IsHoliday(%s) = %v, want %v", tt.name, tt.day.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestMarkHoliday(t *testing.T) {
	cal, err := Open(filepath.Join(t.TempDir(), "holidays.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	epiphany := day(2022, time.January, 6)
	if cal.IsHoliday(epiphany) {
		t.Fatal("epiphany marked before teaching the calendar")
	}
	cal.MarkHoliday(epiphany)
	if !cal.IsHoliday(epiphany) {
		t.Error("marked day not reported as holiday")
	}
}

func TestCloseRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.json")

	cal, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	cal.MarkHoliday(day(2022, time.January, 6))
	cal.MarkHoliday(day(2022, time.April, 18))
	if err := cal.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	for _, d := range []time.Time{day(2022, time.January, 6), day(2022, time.April, 18)} {
		if !reopened.IsHoliday(d) {
			t.Errorf("persisted holiday %s lost after reopen", d.Format("2006-01-02"))
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading persisted file: %v", err)
	}
	var dates []string
	if err := json.Unmarshal(raw, &dates); err != nil {
		t.Fatalf("persisted file not a JSON date list: %v", err)
	}
	want := []string{"2022-01-06", "2022-04-18"}
	if len(dates) != len(want) {
		t.Fatalf("persisted %d dates, want %d", len(dates), len(want))
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Errorf("dates[%d] = %q, want %q (sorted order)", i, dates[i], want[i])
		}
	}
}

func TestThresholdFlushesMidRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.json")
	cal, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// One short of the threshold: nothing on disk yet.
	d := day(2000, time.January, 3)
	for i := 0; i < persistThreshold-1; i++ {
		cal.MarkHoliday(d.AddDate(0, 0, i*7)) // mondays, never weekend-shortcut
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("calendar flushed before threshold (stat err %v)", err)
	}

	cal.MarkHoliday(d.AddDate(0, 0, persistThreshold*7))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("calendar not flushed at threshold: %v", err)
	}
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("Open accepted corrupt calendar file")
	}
}

func TestMarkHolidayIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.json")
	cal, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	d := day(2022, time.January, 6)
	for i := 0; i < persistThreshold*2; i++ {
		cal.MarkHoliday(d)
	}
	// Re-marking the same day must not count toward the flush threshold.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("duplicate marks triggered a flush (stat err %v)", err)
	}
}
