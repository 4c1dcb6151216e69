// Package config loads easystore settings from YAML and the environment and
// builds the disk registry and dispatcher options from them.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/hupe1980/easystore"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment override (EASYSTORE_DEFAULT, ...).
const EnvPrefix = "EASYSTORE"

// Driver names accepted in DiskConfig.Driver.
const (
	DriverLocal = "local"
	DriverS3    = "s3"
	DriverMinio = "minio"
	DriverGCS   = "gcs"
)

// Config holds all configuration.
type Config struct {
	Default     string                `yaml:"default"`
	LogErrors   bool                  `yaml:"log_errors"`
	ThrowErrors bool                  `yaml:"throw_errors"`
	Log         LogConfig             `yaml:"log"`
	Server      ServerConfig          `yaml:"server"`
	Disks       map[string]DiskConfig `yaml:"disks"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// ServerConfig holds HTTP download server settings.
type ServerConfig struct {
	Addr              string  `yaml:"addr"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	ShutdownTimeout   string  `yaml:"shutdown_timeout"`
}

// DiskConfig describes one named disk.
type DiskConfig struct {
	Driver       string `yaml:"driver"`
	Root         string `yaml:"root"`
	URL          string `yaml:"url"`
	Key          string `yaml:"key"`
	Secret       string `yaml:"secret"`
	Region       string `yaml:"region"`
	Bucket       string `yaml:"bucket"`
	Endpoint     string `yaml:"endpoint"`
	Prefix       string `yaml:"prefix"`
	UsePathStyle bool   `yaml:"use_path_style"`
	Secure       bool   `yaml:"secure"`
}

// Default returns default configuration: one local disk rooted at
// storage/app, logging and raising disabled.
func Default() *Config {
	return &Config{
		Default: easystore.DefaultDisk,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:              ":8080",
			RequestsPerSecond: 100,
			Burst:             200,
			ShutdownTimeout:   "10s",
		},
		Disks: map[string]DiskConfig{
			easystore.DefaultDisk: {
				Driver: DriverLocal,
				Root:   "storage/app",
			},
		},
	}
}

// Load reads the YAML file at path, expands ${VAR} references from the
// environment and applies EASYSTORE_* overrides. An empty path yields
// Default with overrides applied.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if cfg, err = Parse(data); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML after environment expansion. Fields the document leaves
// out keep their Default values; a disks section replaces the default disks.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	cfg.Disks = nil
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}
	if cfg.Disks == nil {
		cfg.Disks = Default().Disks
	}
	return cfg, nil
}

type envOverrides struct {
	Default     *string `envconfig:"DEFAULT"`
	LogErrors   *bool   `envconfig:"LOG_ERRORS"`
	ThrowErrors *bool   `envconfig:"THROW_ERRORS"`
	LogLevel    *string `envconfig:"LOG_LEVEL"`
	LogFormat   *string `envconfig:"LOG_FORMAT"`
	ServerAddr  *string `envconfig:"SERVER_ADDR"`
}

// ApplyEnv overrides fields from EASYSTORE_* environment variables.
// Unset variables leave the current values alone.
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if env.Default != nil {
		c.Default = *env.Default
	}
	if env.LogErrors != nil {
		c.LogErrors = *env.LogErrors
	}
	if env.ThrowErrors != nil {
		c.ThrowErrors = *env.ThrowErrors
	}
	if env.LogLevel != nil {
		c.Log.Level = *env.LogLevel
	}
	if env.LogFormat != nil {
		c.Log.Format = *env.LogFormat
	}
	if env.ServerAddr != nil {
		c.Server.Addr = *env.ServerAddr
	}
	return nil
}

// DiskNames returns the configured disk names in sorted order.
func (c *Config) DiskNames() []string {
	names := make([]string, 0, len(c.Disks))
	for name := range c.Disks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := c.Disks[c.Default]; !ok {
		errs = append(errs, fmt.Errorf("default disk %q is not configured", c.Default))
	}
	if _, err := c.level(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format %q: want text or json", c.Log.Format))
	}
	if _, err := c.Server.shutdownTimeout(); err != nil {
		errs = append(errs, err)
	}

	for _, name := range c.DiskNames() {
		if err := c.Disks[name].validate(); err != nil {
			errs = append(errs, fmt.Errorf("disk %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (d DiskConfig) validate() error {
	var missing []string
	require := func(field, value string) {
		if value == "" {
			missing = append(missing, field)
		}
	}

	switch d.Driver {
	case DriverLocal:
		require("root", d.Root)
	case DriverS3:
		require("bucket", d.Bucket)
	case DriverMinio:
		require("endpoint", d.Endpoint)
		require("bucket", d.Bucket)
	case DriverGCS:
		require("bucket", d.Bucket)
		require("key", d.Key)
		require("secret", d.Secret)
	default:
		return fmt.Errorf("unknown driver %q", d.Driver)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%s driver requires %s", d.Driver, strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return level, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// Logger builds the logger described by the log section.
func (c *Config) Logger() *easystore.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelInfo
	}
	if strings.EqualFold(c.Log.Format, "json") {
		return easystore.NewJSONLogger(level)
	}
	return easystore.NewTextLogger(level)
}

// Options returns the dispatcher options described by c.
func (c *Config) Options() []easystore.Option {
	return []easystore.Option{
		easystore.WithDefaultDisk(c.Default),
		easystore.WithLogOnError(c.LogErrors),
		easystore.WithRaiseOnError(c.ThrowErrors),
		easystore.WithLogger(c.Logger()),
	}
}

func (s ServerConfig) shutdownTimeout() (time.Duration, error) {
	if s.ShutdownTimeout == "" {
		return 10 * time.Second, nil
	}
	d, err := time.ParseDuration(s.ShutdownTimeout)
	if err != nil {
		return 0, fmt.Errorf("server shutdown_timeout: %w", err)
	}
	return d, nil
}

// ShutdownTimeoutDuration returns the parsed shutdown timeout.
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration {
	d, err := s.shutdownTimeout()
	if err != nil {
		return 10 * time.Second
	}
	return d
}
