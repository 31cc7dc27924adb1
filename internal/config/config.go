package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the catalog API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Media    MediaConfig    `yaml:"media"`
	Auth     AuthConfig     `yaml:"auth"`
	Health   HealthConfig   `yaml:"health"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// HealthConfig bounds the /health component probes.
type HealthConfig struct {
	CheckTimeoutMs int `yaml:"check_timeout_ms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Database drivers.
const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// DatabaseConfig holds record store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, memory (default: redis)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// CatalogConfig holds query limits and catalog defaults.
type CatalogConfig struct {
	DefaultPageSize  int     `yaml:"default_page_size"`
	MaxPageSize      int     `yaml:"max_page_size"`
	PriceCeiling     float64 `yaml:"price_ceiling"` // max price at or above this is unbounded; 0 disables
	MaxSearchResults int     `yaml:"max_search_results"`
	CollectBatchSize int     `yaml:"collect_batch_size"`
	MediaConcurrency int     `yaml:"media_concurrency"`
	SeedFile         string  `yaml:"seed_file"` // JSON catalog loaded at startup by the memory driver
}

// Media drivers.
const (
	MediaDriverKV      = "kv"
	MediaDriverBaseURL = "base_url"
)

// MediaConfig holds media resolver settings.
type MediaConfig struct {
	Driver    string        `yaml:"driver"` // kv, base_url (default: kv with redis, base_url with memory)
	BaseURL   string        `yaml:"base_url"`
	TimeoutMs int           `yaml:"timeout_ms"`
	Breaker   BreakerConfig `yaml:"breaker"`
}

// BreakerConfig holds media resolver circuit breaker settings.
type BreakerConfig struct {
	MaxRequests      uint32  `yaml:"max_requests"`
	IntervalSec      int     `yaml:"interval_sec"`
	OpenTimeoutSec   int     `yaml:"open_timeout_sec"`
	FailureThreshold float64 `yaml:"failure_threshold"`
	MinRequests      uint32  `yaml:"min_requests"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverRedis
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Health.CheckTimeoutMs <= 0 {
		c.Health.CheckTimeoutMs = 2000
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "catalog:"
	}
	if c.Catalog.DefaultPageSize <= 0 {
		c.Catalog.DefaultPageSize = 20
	}
	if c.Catalog.MaxPageSize <= 0 {
		c.Catalog.MaxPageSize = 100
	}
	if c.Catalog.MaxSearchResults <= 0 {
		c.Catalog.MaxSearchResults = 500
	}
	if c.Catalog.CollectBatchSize <= 0 {
		c.Catalog.CollectBatchSize = 500
	}
	if c.Catalog.MediaConcurrency <= 0 {
		c.Catalog.MediaConcurrency = 16
	}
	if c.Media.Driver == "" {
		c.Media.Driver = MediaDriverKV
		if c.Database.Driver == DriverMemory {
			c.Media.Driver = MediaDriverBaseURL
		}
	}
	if c.Media.TimeoutMs <= 0 {
		c.Media.TimeoutMs = 500
	}
	b := &c.Media.Breaker
	if b.MaxRequests == 0 {
		b.MaxRequests = 3
	}
	if b.IntervalSec <= 0 {
		b.IntervalSec = 30
	}
	if b.OpenTimeoutSec <= 0 {
		b.OpenTimeoutSec = 30
	}
	if b.FailureThreshold <= 0 {
		b.FailureThreshold = 0.6
	}
	if b.MinRequests == 0 {
		b.MinRequests = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required")
		}
		if c.Database.DB < 0 {
			return fmt.Errorf("database.db must be non-negative, got %d", c.Database.DB)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverRedis, DriverMemory, c.Database.Driver)
	}
	if c.Catalog.DefaultPageSize > c.Catalog.MaxPageSize {
		return fmt.Errorf("catalog.default_page_size %d exceeds catalog.max_page_size %d",
			c.Catalog.DefaultPageSize, c.Catalog.MaxPageSize)
	}
	if c.Catalog.PriceCeiling < 0 {
		return fmt.Errorf("catalog.price_ceiling must be non-negative, got %g", c.Catalog.PriceCeiling)
	}
	switch c.Media.Driver {
	case MediaDriverKV:
		if c.Database.Driver != DriverRedis {
			return fmt.Errorf("media.driver %q requires database.driver %q", MediaDriverKV, DriverRedis)
		}
	case MediaDriverBaseURL:
		if c.Media.BaseURL == "" {
			return fmt.Errorf("media.base_url is required for media.driver %q", MediaDriverBaseURL)
		}
	default:
		return fmt.Errorf("media.driver must be %q or %q, got %q", MediaDriverKV, MediaDriverBaseURL, c.Media.Driver)
	}
	if t := c.Media.Breaker.FailureThreshold; t > 1 {
		return fmt.Errorf("media.breaker.failure_threshold must be in (0, 1], got %g", t)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
