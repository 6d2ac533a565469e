// Package config loads carbonfocus settings from $CARBONFOCUS_HOME/config.yaml,
// an optional project-local .carbonfocus/config.yaml overlay, and
// CARBONFOCUS_* environment variables, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Environment variables read by the config layer.
const (
	EnvHome        = "CARBONFOCUS_HOME"
	EnvProjectDir  = "CARBONFOCUS_PROJECT_DIR"
	EnvFactorsFile = "CARBONFOCUS_FACTORS_FILE"
	EnvListenAddr  = "CARBONFOCUS_LISTEN_ADDR"
	EnvLogLevel    = "CARBONFOCUS_LOG_LEVEL"
	EnvLogFormat   = "CARBONFOCUS_LOG_FORMAT"
)

// Output formats for CLI results.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Defaults.
const (
	DefaultPrecision       = 1
	DefaultListenAddr      = "127.0.0.1:8080"
	DefaultRateLimit       = 10.0
	DefaultBurst           = 20
	DefaultMaxBodyBytes    = int64(64 << 10)
	DefaultShutdownTimeout = 10 * time.Second
	DefaultCacheSize       = 1024
	MaxPrecision           = 6
	configFileName         = "config.yaml"
	configDirName          = ".carbonfocus"
)

// Config validation errors.
var (
	ErrInvalidOutputFormat = errors.New("output.default_format must be 'table' or 'json'")
	ErrInvalidPrecision    = errors.New("output.precision must be between 0 and 6")
	ErrInvalidLogLevel     = errors.New("logging.level is not a recognised level")
	ErrInvalidLogFormat    = errors.New("logging.format must be 'json' or 'console'")
	ErrInvalidListenAddr   = errors.New("server.listen_addr must not be empty")
	ErrInvalidRateLimit    = errors.New("server.rate_limit must not be negative")
	ErrInvalidBurst        = errors.New("server.burst must be at least 1 when rate limiting is enabled")
	ErrInvalidBodyLimit    = errors.New("server.max_body_bytes must be positive")
	ErrInvalidShutdown     = errors.New("server.shutdown_timeout must be positive")
	ErrInvalidCacheSize    = errors.New("server.cache_size must not be negative")
)

// Config is the full carbonfocus configuration.
type Config struct {
	Output  OutputConfig  `yaml:"output"  json:"output"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Server  ServerConfig  `yaml:"server"  json:"server"`
	Factors FactorsConfig `yaml:"factors" json:"factors"`
	Budget  BudgetConfig  `yaml:"budget"  json:"budget"`
}

// OutputConfig controls CLI result rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	Precision     int    `yaml:"precision"      json:"precision"`
}

// LoggingConfig controls the zerolog logger. An empty File logs to stderr.
type LoggingConfig struct {
	Level  string `yaml:"level"          json:"level"`
	Format string `yaml:"format"         json:"format"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" json:"listen_addr"`
	// RateLimit is requests per second per client IP; 0 disables limiting.
	RateLimit       float64       `yaml:"rate_limit"       json:"rate_limit"`
	Burst           int           `yaml:"burst"            json:"burst"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   json:"max_body_bytes"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
	// CacheSize bounds the estimate cache; 0 disables caching.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP.
	TrustProxy bool `yaml:"trust_proxy,omitempty" json:"trust_proxy,omitempty"`
}

// FactorsConfig selects the emission factor table. An empty File uses the
// table compiled into the binary.
type FactorsConfig struct {
	File string `yaml:"file,omitempty" json:"file,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			Precision:     DefaultPrecision,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			ListenAddr:      DefaultListenAddr,
			RateLimit:       DefaultRateLimit,
			Burst:           DefaultBurst,
			MaxBodyBytes:    DefaultMaxBodyBytes,
			ShutdownTimeout: DefaultShutdownTimeout,
			CacheSize:       DefaultCacheSize,
		},
	}
}

// New returns the configuration from the user's config directory with
// environment overrides applied. A missing or unreadable file yields defaults.
func New() *Config {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnv()
		return cfg
	}
	cfg, err := Load(path)
	if err != nil {
		cfg = Default()
		cfg.ApplyEnv()
	}
	return cfg
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
			return nil, mergeErr
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking config file %s: %w", path, err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ConfigPath returns the path of the user-level config file.
func ConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// ApplyEnv overlays CARBONFOCUS_* environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvFactorsFile)); v != "" {
		c.Factors.File = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvListenAddr)); v != "" {
		c.Server.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		c.Logging.Format = v
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidOutputFormat, c.Output.DefaultFormat)
	}
	if c.Output.Precision < 0 || c.Output.Precision > MaxPrecision {
		return fmt.Errorf("%w: got %d", ErrInvalidPrecision, c.Output.Precision)
	}

	if c.Logging.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
			return fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.Logging.Level)
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console", "text":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if strings.TrimSpace(c.Server.ListenAddr) == "" {
		return ErrInvalidListenAddr
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidRateLimit, c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.Burst < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidBurst, c.Server.Burst)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidBodyLimit, c.Server.MaxBodyBytes)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidShutdown, c.Server.ShutdownTimeout)
	}
	if c.Server.CacheSize < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCacheSize, c.Server.CacheSize)
	}

	if err := c.Budget.Validate(); err != nil {
		return fmt.Errorf("budget: %w", err)
	}
	return nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if mkErr := os.MkdirAll(filepath.Dir(path), 0o700); mkErr != nil {
		return fmt.Errorf("creating config directory: %w", mkErr)
	}
	if writeErr := os.WriteFile(path, data, 0o600); writeErr != nil {
		return fmt.Errorf("writing config file %s: %w", path, writeErr)
	}
	return nil
}
