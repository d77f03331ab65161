// Package config loads the handful of knobs that are genuine, sticky
// configuration rather than per-query CLI flags: extra ignore patterns,
// cache location, parser worker pool size, and the server's idle
// re-sync interval. Everything else about a query is passed explicitly.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds polyidx's sticky configuration.
type Config struct {
	Ignore IgnoreConfig `koanf:"ignore"`
	Cache  CacheConfig  `koanf:"cache"`
	Build  BuildConfig  `koanf:"build"`
	Server ServerConfig `koanf:"server"`
}

// IgnoreConfig adds project-specific exclusions on top of the built-in,
// marker-conditional discovery rules.
type IgnoreConfig struct {
	Patterns []string `koanf:"patterns"`
}

// CacheConfig controls where the on-disk snapshot lives.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
}

// BuildConfig controls the parser worker pool.
type BuildConfig struct {
	MaxWorkers int `koanf:"max_workers"` // 0 = runtime.NumCPU()
}

// ServerConfig controls the MCP server's background re-sync.
type ServerConfig struct {
	ResyncIntervalSeconds int `koanf:"resync_interval_seconds"`
}

// DefaultConfig returns the configuration used when no file is found and
// no POLYIDX_* environment variable overrides anything.
func DefaultConfig() *Config {
	return &Config{
		Ignore: IgnoreConfig{},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".polyidx/cache",
		},
		Build: BuildConfig{
			MaxWorkers: 0,
		},
		Server: ServerConfig{
			ResyncIntervalSeconds: 5,
		},
	}
}

// configNames are the file names searched for, in order, at root and at
// the user's home directory.
var configNames = []string{".polyidx.yaml", ".polyidx.yml"}

// FindConfigFile searches root, then $HOME, for a polyidx config file.
func FindConfigFile(root string) string {
	dirs := []string{root}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	for _, dir := range dirs {
		for _, name := range configNames {
			p := filepath.Join(dir, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p
			}
		}
	}
	return ""
}

// Load reads configuration for a project root: defaults, overridden by a
// discovered .polyidx.yaml, overridden by POLYIDX_* environment
// variables (e.g. POLYIDX_CACHE_DIR, POLYIDX_BUILD_MAX_WORKERS).
func Load(root string) (*Config, error) {
	cfg := DefaultConfig()
	k := koanf.New(".")

	if path := FindConfigFile(root); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	envSource := envprovider.Provider(".", envprovider.Opt{
		Prefix: "POLYIDX_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, "POLYIDX_")
			key = strings.ToLower(key)
			key = strings.Replace(key, "_", ".", 1)
			return key, value
		},
	})
	if err := k.Load(envSource, nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every knob is within an acceptable range.
func (c *Config) Validate() error {
	var errs []error
	if c.Build.MaxWorkers < 0 {
		errs = append(errs, errors.New("build.max_workers must be non-negative"))
	}
	if c.Server.ResyncIntervalSeconds < 1 {
		errs = append(errs, errors.New("server.resync_interval_seconds must be at least 1"))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
