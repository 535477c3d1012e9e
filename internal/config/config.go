package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var ErrUnknownEnv = errors.New("unknown env")

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// raw workout log store: sqlite | postgres
	StoreDriver    string `toml:"store_driver"`
	SQLitePath     string `toml:"sqlite_path"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// durable cache tier: redis | sqlite | none
	CacheStore         string `toml:"cache_store"`
	CacheMemorySizeMiB int    `toml:"cache_memory_size_mib"`
	RedisHost          string `toml:"redis_host"`
	RedisPort          string `toml:"redis_port"`

	// remote analytics service, offline mode when empty
	RemoteAnalyticsURL  string `toml:"remote_analytics_url"`
	RemoteTimeoutMillis int    `toml:"remote_timeout_ms"`

	RateLimitPerMinute int `toml:"rate_limit_per_minute"`
}

func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutMillis) * time.Millisecond
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

type Toml struct {
	Development *Config
	Production  *Config
	DockerDev   *Config `toml:"dockerdev"`
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	case "ddev", "dockerdev":
		cfg = t.DockerDev
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEnv, env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config for env [%s]: %w", env, err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.StoreDriver == "" {
		c.StoreDriver = "sqlite"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "./data/gymprogress.db"
	}
	if c.CacheStore == "" {
		c.CacheStore = "sqlite"
	}
	if c.CacheMemorySizeMiB <= 0 {
		c.CacheMemorySizeMiB = 64
	}
	if c.RemoteTimeoutMillis <= 0 {
		c.RemoteTimeoutMillis = 10_000
	}
	if c.RateLimitPerMinute <= 0 {
		c.RateLimitPerMinute = 120
	}
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported store driver [%s]", c.StoreDriver)
	}
	switch c.CacheStore {
	case "redis", "sqlite", "none":
	default:
		return fmt.Errorf("unsupported cache store [%s]", c.CacheStore)
	}
	if c.CacheStore == "redis" && (c.RedisHost == "" || c.RedisPort == "") {
		return errors.New("redis cache store needs redis_host and redis_port")
	}
	if c.StoreDriver == "postgres" && (c.PostgresHost == "" || c.PostgresDBName == "") {
		return errors.New("postgres store needs postgres_host and postgres_db_name")
	}
	return nil
}
