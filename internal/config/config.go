package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Geo       GeoConfig       `yaml:"geo"`
	Publisher PublisherConfig `yaml:"publisher"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	// PublicBaseURL prefixes the pixel and tracked-link URLs handed out at
	// registration. Empty keeps them relative ("/t/...", "/c/...").
	PublicBaseURL      string   `yaml:"public_base_url"`
	DashboardDir       string   `yaml:"dashboard_dir"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	// APIRateLimitPerMinute caps /api requests per client IP. 0 disables it.
	APIRateLimitPerMinute int `yaml:"api_rate_limit_per_minute"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// Addr returns host:port for net.Listen.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.GetHost(), c.Port)
}

// StorageConfig holds the SQLite store location
type StorageConfig struct {
	DBPath        string `yaml:"db_path"`
	BusyTimeoutMS int    `yaml:"busy_timeout_ms"`
}

// BusyTimeout returns how long a writer waits on a locked database.
func (c StorageConfig) BusyTimeout() time.Duration {
	return time.Duration(c.BusyTimeoutMS) * time.Millisecond
}

// GeoConfig holds IP geolocation settings
type GeoConfig struct {
	// Disabled turns lookups off entirely; every event gets an empty location.
	Disabled  bool   `yaml:"disabled"`
	BaseURL   string `yaml:"base_url"`
	TimeoutMS int    `yaml:"timeout_ms"`

	// BreakerFailures is the number of consecutive lookup failures that
	// open the circuit; BreakerCooldownSeconds is how long it stays open.
	BreakerFailures        uint32 `yaml:"breaker_failures"`
	BreakerCooldownSeconds int    `yaml:"breaker_cooldown_seconds"`

	RedisURL        string `yaml:"redis_url"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
}

// Timeout returns the configured lookup timeout as a duration
func (c GeoConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// BreakerCooldown returns how long an open breaker short-circuits lookups.
func (c GeoConfig) BreakerCooldown() time.Duration {
	return time.Duration(c.BreakerCooldownSeconds) * time.Second
}

// CacheTTL returns how long a resolved location is cached in Redis.
func (c GeoConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// PublisherConfig holds the optional SQS fan-out of recorded events
type PublisherConfig struct {
	SQSQueueURL string `yaml:"sqs_queue_url"`
	AWSRegion   string `yaml:"aws_region"`
}

// Enabled reports whether a queue is configured.
func (c PublisherConfig) Enabled() bool {
	return c.SQSQueueURL != ""
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// ShouldRedactPII defaults to true when unset.
func (c LoggingConfig) ShouldRedactPII() bool {
	return c.RedactPII == nil || *c.RedactPII
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.DashboardDir == "" {
		cfg.Server.DashboardDir = "static"
	}
	if len(cfg.Server.CORSAllowedOrigins) == 0 {
		cfg.Server.CORSAllowedOrigins = []string{"*"}
	}
	cfg.Server.PublicBaseURL = strings.TrimRight(cfg.Server.PublicBaseURL, "/")
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = "data/tracker.db"
	}
	if cfg.Storage.BusyTimeoutMS == 0 {
		cfg.Storage.BusyTimeoutMS = 5000
	}
	if cfg.Geo.BaseURL == "" {
		cfg.Geo.BaseURL = "http://ip-api.com"
	}
	if cfg.Geo.TimeoutMS == 0 {
		cfg.Geo.TimeoutMS = 2000
	}
	if cfg.Geo.BreakerFailures == 0 {
		cfg.Geo.BreakerFailures = 5
	}
	if cfg.Geo.BreakerCooldownSeconds == 0 {
		cfg.Geo.BreakerCooldownSeconds = 60
	}
	if cfg.Geo.CacheTTLMinutes == 0 {
		cfg.Geo.CacheTTLMinutes = 24 * 60
	}
	if cfg.Publisher.AWSRegion == "" {
		cfg.Publisher.AWSRegion = "us-west-2"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// LoadFromEnv loads the config file (a missing file yields defaults), a .env
// file when present, and then applies environment overrides.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		cfg.Server.PublicBaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("DASHBOARD_DIR"); v != "" {
		cfg.Server.DashboardDir = v
	}
	if v := os.Getenv("GEO_BASE_URL"); v != "" {
		cfg.Geo.BaseURL = v
	}
	if v := os.Getenv("GEO_DISABLED"); v != "" {
		cfg.Geo.Disabled = v == "true" || v == "1"
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Geo.RedisURL = v
	}
	if v := os.Getenv("SQS_TRACKING_QUEUE_URL"); v != "" {
		cfg.Publisher.SQSQueueURL = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Publisher.AWSRegion = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return cfg, nil
}
