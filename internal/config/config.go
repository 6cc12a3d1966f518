// Package config handles configuration loading for gpwmon.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Cache    CacheConfig    `mapstructure:"cache"    yaml:"cache"`
	HTTP     HTTPConfig     `mapstructure:"http"     yaml:"http"`
	Output   OutputConfig   `mapstructure:"output"   yaml:"output"`
	Calendar CalendarConfig `mapstructure:"calendar" yaml:"calendar"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// CacheConfig holds the on-disk cache layout settings.
type CacheConfig struct {
	Root string `mapstructure:"root" yaml:"root"`
}

// HTTPConfig holds downloader settings.
type HTTPConfig struct {
	TimeoutSec int  `mapstructure:"timeout_sec" yaml:"timeout_sec"`
	Insecure   bool `mapstructure:"insecure"    yaml:"insecure"` // accept broken exchange TLS chains
}

// OutputConfig holds result export settings.
type OutputConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// CalendarConfig holds the holiday calendar settings.
type CalendarConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// AnalysisConfig holds analysis pipeline settings.
type AnalysisConfig struct {
	ConcurrentFetches int     `mapstructure:"concurrent_fetches" yaml:"concurrent_fetches"`
	ActivityThreshold float64 `mapstructure:"activity_threshold" yaml:"activity_threshold"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// HolidayFile resolves the calendar path, defaulting into the cache tree.
func (c *Config) HolidayFile() string {
	if c.Calendar.File != "" {
		return c.Calendar.File
	}
	return filepath.Join(c.Cache.Root, "data", "gpw", "holidays.json")
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.gpwmon/config.yaml (home directory)
//  3. /etc/gpwmon/config.yaml (system)
//
// Environment variables override config file values.
// Format: GPWMON_<SECTION>_<KEY>, e.g., GPWMON_CACHE_ROOT
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".gpwmon"))
	v.AddConfigPath("/etc/gpwmon")

	v.SetEnvPrefix("GPWMON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("GPWMON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("cache.root", filepath.Join(homeDir(), ".gpwmon"))

	// Exchange servers are slow around session close; be generous.
	v.SetDefault("http.timeout_sec", 30)
	v.SetDefault("http.insecure", true)

	v.SetDefault("output.dir", "out")
	v.SetDefault("calendar.file", "")

	v.SetDefault("analysis.concurrent_fetches", 5)
	v.SetDefault("analysis.activity_threshold", 0.005)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
