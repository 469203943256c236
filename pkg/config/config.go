// Package config loads sunburst settings from an optional TOML file.
//
// Lookup order for the file, first match wins:
//
//  1. the path passed to [Load] (--config)
//  2. ./sunburst.toml
//  3. $XDG_CONFIG_HOME/sunburst/sunburst.toml (~/.config/sunburst/sunburst.toml)
//
// A missing file is not an error; [Default] values apply. Environment
// variables SUNBURST_REDIS_ADDR and SUNBURST_CACHE_DIR override the file,
// and command-line flags override both.
//
// Example file:
//
//	[chart]
//	size = 800
//	scale = "linear"
//	palette = ["#3182bd", "#e6550d", "#31a354"]
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	prefix = "sunburst:"
//	ttl = "1m"
//
//	[server]
//	addr = ":8080"
//	source = "https://ci.example.com/api/failures"
//	refresh_interval = "30s"
//	min_refresh_gap = "5s"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sunburst/pkg/errors"
	"github.com/matzehuels/sunburst/pkg/sunburst"
	"github.com/matzehuels/sunburst/pkg/sunburst/palette"
	"github.com/matzehuels/sunburst/pkg/sunburst/partition"
)

// AppName names config and cache directories.
const AppName = "sunburst"

// FileName is the config file name searched for.
const FileName = "sunburst.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Environment overrides.
const (
	EnvRedisAddr = "SUNBURST_REDIS_ADDR"
	EnvCacheDir  = "SUNBURST_CACHE_DIR"
)

// Config is the complete settings tree.
type Config struct {
	Chart  Chart  `toml:"chart"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// Chart holds drawing options.
type Chart struct {
	Size    float64  `toml:"size"`
	Scale   string   `toml:"scale"`
	Palette []string `toml:"palette"`
	Labels  bool     `toml:"labels"`
}

// Cache selects and configures the report and artifact cache.
type Cache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
	// TTL is how long fetched reports are reused. Zero means cache.ReportTTL.
	TTL Duration `toml:"ttl"`
}

// Server configures `sunburst serve`.
type Server struct {
	Addr            string   `toml:"addr"`
	Source          string   `toml:"source"`
	RefreshInterval Duration `toml:"refresh_interval"`
	MinRefreshGap   Duration `toml:"min_refresh_gap"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Chart: Chart{
			Size:  sunburst.DefaultSize,
			Scale: partition.ScaleSqrt,
		},
		Cache: Cache{
			Backend: BackendFile,
			Prefix:  AppName + ":",
		},
		Server: Server{
			Addr:            ":8080",
			RefreshInterval: Duration{30 * time.Second},
			MinRefreshGap:   Duration{5 * time.Second},
		},
	}
}

// Load reads the config file at path, or searches the default locations
// when path is empty. Environment overrides are applied and the result is
// validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = find()
	}
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
		cfg.Path = path
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func find() string {
	candidates := []string{FileName}
	if dir, err := ConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, FileName))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
		c.Cache.Backend = BackendRedis
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		c.Cache.Dir = v
	}
}

// Validate checks every field.
func (c *Config) Validate() error {
	if c.Chart.Size <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "chart.size must be positive, got %g", c.Chart.Size)
	}
	if _, err := partition.ParseScale(c.Chart.Scale); err != nil {
		return err
	}
	if len(c.Chart.Palette) > 0 {
		if _, err := palette.New(c.Chart.Palette...); err != nil {
			return err
		}
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone, "":
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache.backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Server.RefreshInterval.Duration < 0 || c.Server.MinRefreshGap.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server intervals must not be negative")
	}
	return nil
}

// CacheDir returns the file cache directory: cache.dir if set, else
// $XDG_CACHE_HOME/sunburst, else ~/.cache/sunburst.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return DefaultCacheDir()
}

// DefaultCacheDir returns the XDG cache directory for sunburst.
func DefaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// ConfigDir returns the XDG config directory for sunburst.
func ConfigDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}
