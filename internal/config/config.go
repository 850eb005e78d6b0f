package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Catalog string `koanf:"catalog"` // path to the offline metadata catalog

	// Detail screen preferences
	Detail DetailConfig `koanf:"detail"`

	// Metadata cache settings
	Cache CacheConfig `koanf:"cache"`

	// Log file settings (the terminal is never used for logs)
	Log LogConfig `koanf:"log"`

	// Error reporting (enabled when a DSN is configured)
	Report ReportConfig `koanf:"report"`
}

// DetailConfig holds the detail screen preferences.
type DetailConfig struct {
	ShowComments    *bool `koanf:"show_comments"`    // default: true
	ShowRelated     *bool `koanf:"show_related"`     // default: true
	ShowDescription *bool `koanf:"show_description"` // default: true
	Autoplay        *bool `koanf:"autoplay"`         // default: true
	AllowRestricted bool  `koanf:"allow_restricted"` // default: false
}

// CacheConfig holds metadata cache settings.
type CacheConfig struct {
	TTLMinutes int `koanf:"ttl_minutes"` // default: 10
}

// LogConfig holds logging settings.
type LogConfig struct {
	File  string `koanf:"file"`  // empty means $XDG_STATE_HOME/reel/reel.log
	Level string `koanf:"level"` // "debug", "info", "warn", "error" (default: "info")
}

// ReportConfig holds error reporting settings.
type ReportConfig struct {
	SentryDSN   string `koanf:"sentry_dsn"`
	Environment string `koanf:"environment"`
}

// Preferences is the read-only preference set consumed by detail screens.
type Preferences struct {
	ShowComments    bool
	ShowRelated     bool
	ShowDescription bool
	Autoplay        bool
	AllowRestricted bool
}

const (
	defaultCacheTTL = 10 * time.Minute
	defaultLogLevel = "info"
)

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.Catalog != "" {
		cfg.Catalog = expandPath(cfg.Catalog)
	}
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/reel/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "reel", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// Preferences returns the detail preferences with defaults applied.
func (c *Config) Preferences() Preferences {
	return Preferences{
		ShowComments:    boolOr(c.Detail.ShowComments, true),
		ShowRelated:     boolOr(c.Detail.ShowRelated, true),
		ShowDescription: boolOr(c.Detail.ShowDescription, true),
		Autoplay:        boolOr(c.Detail.Autoplay, true),
		AllowRestricted: c.Detail.AllowRestricted,
	}
}

// HasCatalog returns true if an offline catalog is configured.
func (c *Config) HasCatalog() bool {
	return c.Catalog != ""
}

// HasReportConfig returns true if error reporting is configured.
func (c *Config) HasReportConfig() bool {
	return c.Report.SentryDSN != ""
}

// CacheTTL returns the metadata cache TTL with the default applied.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTLMinutes <= 0 {
		return defaultCacheTTL
	}
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// LogLevel returns the configured log level, "info" when unset.
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return defaultLogLevel
	}
	return c.Log.Level
}
