// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Site     SiteConfig     `mapstructure:"site"`
	Sources  SourcesConfig  `mapstructure:"sources"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"` // development, staging, production
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`

	// AllowOrigins is the CORS origin list for the filter API; empty
	// disables CORS.
	AllowOrigins string `mapstructure:"allow_origins"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Name         string        `mapstructure:"name"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	SSLMode      string        `mapstructure:"ssl_mode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// SiteConfig holds settings for reaching the static site.
type SiteConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retry   RetryConfig   `mapstructure:"retry"`
	CB      CBConfig      `mapstructure:"circuit_breaker"`

	// FetchConcurrency bounds the item pages fetched per filtered page.
	FetchConcurrency int `mapstructure:"fetch_concurrency"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// SourcesConfig lists the index exports of the static site.
// Sources are served by the site and share its connection settings.
type SourcesConfig struct {
	Manifest ManifestSourceConfig `mapstructure:"manifest"`
	Feeds    []FeedSourceConfig   `mapstructure:"feeds"`
}

// ManifestSourceConfig holds the JSON manifest settings.
type ManifestSourceConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// FeedSourceConfig holds the RSS feed settings of one collection.
type FeedSourceConfig struct {
	Collection string `mapstructure:"collection"`
	Endpoint   string `mapstructure:"endpoint"`
}

// SyncConfig holds background index sync settings.
type SyncConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	OnStartup bool          `mapstructure:"on_startup"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RedisConfig holds Redis connection settings for page caching and locking.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the host:port of the Redis server.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds page caching settings.
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	PageTTL   time.Duration `mapstructure:"page_ttl"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

// defaults are applied before the config file and the environment.
var defaults = map[string]any{
	"app.name":          "collection-filter-service",
	"app.env":           "development",
	"app.port":          8080,
	"app.debug":         true,
	"app.allow_origins": "",

	"database.host":           "localhost",
	"database.port":           5432,
	"database.name":           "collection_filters",
	"database.user":           "app",
	"database.password":       "secret",
	"database.ssl_mode":       "disable",
	"database.max_open_conns": 25,
	"database.max_idle_conns": 5,
	"database.max_lifetime":   "5m",

	"site.base_url":                      "http://localhost:8081",
	"site.timeout":                       "5s",
	"site.retry.max_attempts":            2,
	"site.retry.wait_time":               "200ms",
	"site.retry.max_wait_time":           "1s",
	"site.circuit_breaker.max_requests":  3,
	"site.circuit_breaker.interval":      "60s",
	"site.circuit_breaker.timeout":       "30s",
	"site.circuit_breaker.failure_ratio": 0.5,
	"site.fetch_concurrency":             4,

	"sources.manifest.enabled":  true,
	"sources.manifest.endpoint": "/index/manifest.json",
	"sources.feeds": []map[string]any{
		{"collection": "news", "endpoint": "/news/feed.xml"},
	},

	"sync.interval":   "5m",
	"sync.on_startup": true,
	"sync.timeout":    "30s",

	"logger.level":  "info",
	"logger.format": "console",
	"logger.output": "stdout",

	"sentry.enabled":     false,
	"sentry.dsn":         "",
	"sentry.environment": "development",
	"sentry.sample_rate": 1.0,

	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"cache.enabled":    false,
	"cache.page_ttl":   "10m",
	"cache.key_prefix": "collection-filters",
}

// Load reads configuration from configPath, or from config.yaml in ./config
// or the working directory when configPath is empty. APP_ environment
// variables override the file, e.g. APP_SITE_BASE_URL.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configPath == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
