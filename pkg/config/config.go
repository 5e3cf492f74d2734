package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the portal
type Config struct {
	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Upstream hospital API configuration
	Upstream UpstreamConfig `mapstructure:"upstream"`

	// Cache configuration
	Cache CacheConfig `mapstructure:"cache"`

	// Polling configuration
	Polling PollingConfig `mapstructure:"polling"`

	// Logging configuration
	LogLevel string `mapstructure:"log_level"`

	// Monitoring configuration
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// UpstreamConfig holds configuration for the external hospital API server
type UpstreamConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	RequestTimeout int    `mapstructure:"request_timeout"`
}

// CacheConfig holds query cache staleness configuration
type CacheConfig struct {
	// ListStaleAfter bounds how long a list query is served without
	// revalidation, in seconds
	ListStaleAfter int `mapstructure:"list_stale_after"`

	// ReferenceTTL is the fixed cache window for reference data
	// (active doctors, rooms, services), in seconds
	ReferenceTTL int `mapstructure:"reference_ttl"`

	// SearchDebounce is the settle delay for free-text search, in milliseconds
	SearchDebounce int `mapstructure:"search_debounce"`
}

// PollingConfig holds board refresh configuration
type PollingConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	BoardInterval int  `mapstructure:"board_interval"`
}

// MonitoringConfig holds monitoring configuration
type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
	HealthPath  string `mapstructure:"health_path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/hms-portal")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideWithEnv(&config)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("server.idle_timeout", 120)

	// Upstream defaults; base_url points at a local API server when unset
	viper.SetDefault("upstream.base_url", "http://localhost:8081")
	viper.SetDefault("upstream.request_timeout", 15)

	// Cache defaults
	viper.SetDefault("cache.list_stale_after", 60)
	viper.SetDefault("cache.reference_ttl", 1800) // 30 minutes
	viper.SetDefault("cache.search_debounce", 500)

	// Polling defaults
	viper.SetDefault("polling.enabled", true)
	viper.SetDefault("polling.board_interval", 45)

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.metrics_path", "/metrics")
	viper.SetDefault("monitoring.health_path", "/healthz")

	// Logging defaults
	viper.SetDefault("log_level", "info")
}

// overrideWithEnv overrides configuration with environment variables
func overrideWithEnv(config *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if apiURL := os.Getenv("HMS_API_URL"); apiURL != "" {
		config.Upstream.BaseURL = apiURL
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.LogLevel = logLevel
	}
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream base URL is required")
	}

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Cache.ReferenceTTL <= 0 {
		return fmt.Errorf("reference TTL must be positive: %d", config.Cache.ReferenceTTL)
	}

	if config.Polling.Enabled && config.Polling.BoardInterval <= 0 {
		return fmt.Errorf("board interval must be positive: %d", config.Polling.BoardInterval)
	}

	return nil
}

// ListStaleAfterDuration returns the list staleness bound as a duration
func (c *CacheConfig) ListStaleAfterDuration() time.Duration {
	return time.Duration(c.ListStaleAfter) * time.Second
}

// ReferenceTTLDuration returns the reference data cache window as a duration
func (c *CacheConfig) ReferenceTTLDuration() time.Duration {
	return time.Duration(c.ReferenceTTL) * time.Second
}

// SearchDebounceDuration returns the search settle delay as a duration
func (c *CacheConfig) SearchDebounceDuration() time.Duration {
	return time.Duration(c.SearchDebounce) * time.Millisecond
}

// BoardIntervalDuration returns the board poll interval as a duration
func (c *PollingConfig) BoardIntervalDuration() time.Duration {
	return time.Duration(c.BoardInterval) * time.Second
}
