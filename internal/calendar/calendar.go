// Package calendar tracks non-session days of the exchange. The set of known
// holidays is discovered incrementally (a day with no archive workbook was a
// holiday) and persisted between runs so re-discovery is never needed.
package calendar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const dateFormat = "2006-01-02"

// persistThreshold is how many unsaved marks accumulate before the set is
// flushed to disk mid-run.
const persistThreshold = 50

// Known data range of the exchange archive. Days before the first session are
// treated as holidays; days past the maintained range are assumed trading
// days with a warning.
var (
	firstSession = time.Date(1991, time.April, 16, 0, 0, 0, 0, time.UTC)
	knownUntil   = time.Date(2022, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Calendar is a persisted set of holiday dates. Safe for concurrent use.
type Calendar struct {
	path string

	mu      sync.Mutex
	days    map[string]struct{}
	pending int
}

// Open loads the holiday set stored at path. A missing file yields an empty
// calendar; a present but unreadable one is an error.
func Open(path string) (*Calendar, error) {
	c := &Calendar{path: path, days: make(map[string]struct{})}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading holiday calendar: %w", err)
	}

	var dates []string
	if err := json.Unmarshal(raw, &dates); err != nil {
		return nil, fmt.Errorf("decoding holiday calendar %s: %w", path, err)
	}
	for _, d := range dates {
		if _, err := time.Parse(dateFormat, d); err != nil {
			return nil, fmt.Errorf("decoding holiday calendar %s: bad date %q", path, d)
		}
		c.days[d] = struct{}{}
	}
	return c, nil
}

// IsHoliday reports whether the exchange held no session on day. Weekends are
// always holidays. Dates past the maintained range are assumed to be trading
// days and logged.
func (c *Calendar) IsHoliday(day time.Time) bool {
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return true
	}
	if day.Before(firstSession) {
		return true
	}
	if day.After(knownUntil) {
		log.Warn().Str("date", day.Format(dateFormat)).
			Msg("date past maintained holiday range, assuming session day")
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.days[day.Format(dateFormat)]
	return ok
}

// MarkHoliday records day as a non-session day. Every persistThreshold new
// marks the set is flushed to disk; flush failures are logged, not returned,
// since the in-memory set stays authoritative for the rest of the run.
func (c *Calendar) MarkHoliday(day time.Time) {
	key := day.Format(dateFormat)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.days[key]; ok {
		return
	}
	c.days[key] = struct{}{}
	c.pending++
	if c.pending >= persistThreshold {
		if err := c.persist(); err != nil {
			log.Error().Err(err).Msg("persisting holiday calendar")
			return
		}
		c.pending = 0
	}
}

// Close flushes any unsaved marks to disk.
func (c *Calendar) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == 0 {
		return nil
	}
	if err := c.persist(); err != nil {
		return fmt.Errorf("persisting holiday calendar: %w", err)
	}
	c.pending = 0
	return nil
}

// persist writes the sorted date list. Callers hold c.mu.
func (c *Calendar) persist() error {
	dates := make([]string, 0, len(c.days))
	for d := range c.days {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	raw, err := json.MarshalIndent(dates, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".holidays-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.path)
}
