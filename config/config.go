// Package config provides configuration management for memrepo.
//
// Configuration is read from a YAML file:
//
//	log_level: info
//	storage:
//	  backend: badger   # memory | badger
//	  path: ./data      # badger only
//	  in_memory: false  # badger only
//	ingestion:
//	  pool_size: 4
//	  max_retries: 3
//	  retry_delay: 250ms
//
// Config file locations (priority order):
//  1. explicit path (--config)
//  2. $MEMREPO_CONFIG
//
// With neither set, DefaultConfig is used.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath is the environment variable for an explicit config path.
const EnvConfigPath = "MEMREPO_CONFIG"

// Storage backends.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Config holds the settings for a memrepo database and its tools.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel  string          `yaml:"log_level"`
	Storage   StorageConfig   `yaml:"storage"`
	Ingestion IngestionConfig `yaml:"ingestion"`
}

// StorageConfig selects and locates the storage backend.
type StorageConfig struct {
	// Backend is BackendMemory or BackendBadger.
	Backend string `yaml:"backend"`
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string `yaml:"path"`
	// InMemory runs BadgerDB without touching disk.
	InMemory bool `yaml:"in_memory"`
}

// IngestionConfig tunes the bulk loader.
type IngestionConfig struct {
	// PoolSize is the number of preparation workers. 0 means runtime.NumCPU()/2.
	PoolSize int `yaml:"pool_size"`
	// MaxRetries is the number of attempts per save. Default: 3
	MaxRetries int `yaml:"max_retries"`
	// RetryDelay is the base backoff between attempts. Default: 100ms
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBackend sets the storage backend.
func WithBackend(backend string) ConfigOption {
	return func(c *Config) {
		c.Storage.Backend = backend
	}
}

// WithPath sets the BadgerDB directory.
func WithPath(path string) ConfigOption {
	return func(c *Config) {
		c.Storage.Path = path
	}
}

// WithInMemory toggles BadgerDB in-memory mode.
func WithInMemory(inMemory bool) ConfigOption {
	return func(c *Config) {
		c.Storage.InMemory = inMemory
	}
}

// WithPoolSize sets the ingestion worker pool size.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.Ingestion.PoolSize = size
	}
}

// WithRetry sets the ingestion retry policy.
func WithRetry(maxRetries int, delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.Ingestion.MaxRetries = maxRetries
		c.Ingestion.RetryDelay = delay
	}
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) ConfigOption {
	return func(c *Config) {
		c.LogLevel = level
	}
}

// DefaultConfig returns a Config backed by the plain in-memory repository.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Storage: StorageConfig{
			Backend: BackendMemory,
		},
		Ingestion: IngestionConfig{
			MaxRetries: 3,
			RetryDelay: 100 * time.Millisecond,
		},
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Load reads the config at path, falling back to $MEMREPO_CONFIG and then
// to defaults. Returns the config and the path it came from ("" for defaults).
func Load(path string) (*Config, string, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return DefaultConfig(), "", nil
	}
	cfg, err := LoadFromPath(path)
	return cfg, path, err
}

// LoadFromPath loads config from a specific path.
// Fields missing from the file keep their default values.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize lower-cases enumerated fields.
func (c *Config) Normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendBadger:
		if c.Storage.Path == "" && !c.Storage.InMemory {
			return errors.New("config: badger backend requires a path or in_memory")
		}
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}

	if c.Ingestion.PoolSize < 0 {
		return errors.New("config: pool_size cannot be negative")
	}
	if c.Ingestion.MaxRetries < 1 {
		return errors.New("config: max_retries must be at least 1")
	}
	if c.Ingestion.RetryDelay < 0 {
		return errors.New("config: retry_delay cannot be negative")
	}
	return nil
}
