// Package config loads the optional TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/dayplanner/internal/constants"
	"github.com/julianstephens/dayplanner/internal/kv"
)

const (
	EnvStorage    = "DAYPLANNER_STORAGE"
	EnvDB         = "DAYPLANNER_DB"
	EnvConnection = "DAYPLANNER_DB_CONNECTION"
)

// Config mirrors config.toml. Every field is optional.
type Config struct {
	Storage  StorageConfig `toml:"storage"`
	Planner  PlannerConfig `toml:"planner"`
	Log      LogConfig     `toml:"log"`
	Timezone string        `toml:"timezone,omitempty"`
}

type StorageConfig struct {
	// Backend is one of memory, file, sqlite or postgres.
	Backend string `toml:"backend,omitempty"`
	// Path is the database or JSON file location; "~/" is expanded.
	Path string `toml:"path,omitempty"`
	// QuotaBytes caps storage usage. Zero disables the cap.
	QuotaBytes *int64 `toml:"quota_bytes,omitempty"`
	// Connection is a PostgreSQL connection string without a password.
	Connection string `toml:"connection,omitempty"`
}

type PlannerConfig struct {
	DebounceMS int `toml:"debounce_ms,omitempty"`
}

type LogConfig struct {
	Debug bool `toml:"debug,omitempty"`
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Dir returns the expanded default configuration directory.
func Dir() (string, error) {
	return ExpandHome(constants.DefaultConfigDir)
}

// DefaultPath returns the config.toml location inside configDir.
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, constants.DefaultConfigFile)
}

// Load reads path. A missing file yields a nil config and nil error.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Write encodes cfg to path, creating parent directories.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays the DAYPLANNER_* environment variables and returns the
// result. A nil receiver is treated as an empty config.
func (c *Config) ApplyEnv(getenv func(string) string) *Config {
	out := Config{}
	if c != nil {
		out = *c
	}
	if v := getenv(EnvStorage); v != "" {
		out.Storage.Backend = v
	}
	if v := getenv(EnvDB); v != "" {
		out.Storage.Path = v
	}
	if v := getenv(EnvConnection); v != "" {
		out.Storage.Connection = v
	}
	return &out
}

func (c *Config) Backend() (kv.Backend, error) {
	if c == nil {
		return kv.BackendSQLite, nil
	}
	return kv.ParseBackend(c.Storage.Backend)
}

// StoragePath returns the configured path, or the default file for the
// backend inside configDir.
func (c *Config) StoragePath(configDir string) (string, error) {
	if c != nil && c.Storage.Path != "" {
		return ExpandHome(c.Storage.Path)
	}
	backend, err := c.Backend()
	if err != nil {
		return "", err
	}
	if backend == kv.BackendFile {
		return filepath.Join(configDir, constants.DefaultStoreFile), nil
	}
	return filepath.Join(configDir, constants.DefaultDBFile), nil
}

func (c *Config) QuotaBytes() int64 {
	if c == nil || c.Storage.QuotaBytes == nil {
		return constants.DefaultQuotaBytes
	}
	return *c.Storage.QuotaBytes
}

func (c *Config) Debounce() time.Duration {
	if c == nil || c.Planner.DebounceMS <= 0 {
		return constants.DebounceDelay
	}
	return time.Duration(c.Planner.DebounceMS) * time.Millisecond
}

func (c *Config) Debug() bool {
	return c != nil && c.Log.Debug
}

// Location resolves the configured IANA timezone, defaulting to local time.
func (c *Config) Location() (*time.Location, error) {
	if c == nil || c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
