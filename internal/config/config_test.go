package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadReturnsDefaults(t *testing.T) {
	for _, e := range []string{
		"GPWMON_CACHE_ROOT", "GPWMON_HTTP_TIMEOUT_SEC", "GPWMON_LOGGING_LEVEL",
	} {
		os.Unsetenv(e)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Cache.Root == "" {
		t.Error("Cache.Root: empty default")
	}
	if cfg.HTTP.TimeoutSec != 30 {
		t.Errorf("HTTP.TimeoutSec: got %d, want 30", cfg.HTTP.TimeoutSec)
	}
	if !cfg.HTTP.Insecure {
		t.Error("HTTP.Insecure: want true by default")
	}
	if cfg.Output.Dir != "out" {
		t.Errorf("Output.Dir: got %q, want %q", cfg.Output.Dir, "out")
	}
	if cfg.Analysis.ConcurrentFetches != 5 {
		t.Errorf("Analysis.ConcurrentFetches: got %d, want 5", cfg.Analysis.ConcurrentFetches)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
cache:
  root: /var/cache/gpwmon
http:
  timeout_sec: 7
  insecure: false
calendar:
  file: /tmp/holidays.json
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Cache.Root != "/var/cache/gpwmon" {
		t.Errorf("Cache.Root: got %q", cfg.Cache.Root)
	}
	if cfg.HTTP.TimeoutSec != 7 {
		t.Errorf("HTTP.TimeoutSec: got %d, want 7", cfg.HTTP.TimeoutSec)
	}
	if cfg.HTTP.Insecure {
		t.Error("HTTP.Insecure: file value not applied")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "debug")
	}
	// Unset sections keep their defaults.
	if cfg.Analysis.ConcurrentFetches != 5 {
		t.Errorf("Analysis.ConcurrentFetches: got %d, want default 5", cfg.Analysis.ConcurrentFetches)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadFromFile() accepted a missing file")
	}
}

func TestHolidayFile(t *testing.T) {
	cfg := &Config{}
	cfg.Cache.Root = "/var/cache/gpwmon"
	want := filepath.Join("/var/cache/gpwmon", "data", "gpw", "holidays.json")
	if got := cfg.HolidayFile(); got != want {
		t.Errorf("HolidayFile() = %q, want %q", got, want)
	}

	cfg.Calendar.File = "/etc/gpwmon/holidays.json"
	if got := cfg.HolidayFile(); got != "/etc/gpwmon/holidays.json" {
		t.Errorf("HolidayFile() = %q, want explicit path", got)
	}
}
