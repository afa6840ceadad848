// Package config provides configuration management for the hoops-edge predictor.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	DataSources DataSourcesConfig `mapstructure:"data_sources" validate:"required"`
	Scoring     ScoringConfig     `mapstructure:"scoring" validate:"required"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics" validate:"required"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
	Secrets     SecretsConfig     `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// DataSourcesConfig represents the absence feeds and the shared HTTP policy
type DataSourcesConfig struct {
	Sources         []FeedConfig `mapstructure:"sources" validate:"required,min=1,dive"`
	HTTP            HTTPConfig   `mapstructure:"http" validate:"required"`
	CacheTTLSeconds int          `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// FeedConfig represents a single absence feed
type FeedConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Kind    string `mapstructure:"kind" validate:"required,feedkind"`
	Type    string `mapstructure:"type" validate:"required,oneof=http csv"`
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url" validate:"omitempty,url"`
	Path    string `mapstructure:"path"`
	APIKey  string `mapstructure:"api_key"`
	// Origin tags news rows with their publisher, e.g. "espn".
	Origin string `mapstructure:"origin"`
}

// HTTPConfig represents the retry and rate limit policy for feed clients
type HTTPConfig struct {
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit         float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CircuitBreakerMax int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
}

// ScoringConfig represents overridable scoring parameters
type ScoringConfig struct {
	// Weights overrides individual factor weights; the merged table must sum to 100.
	Weights   map[string]int  `mapstructure:"weights"`
	Dampening DampeningConfig `mapstructure:"dampening" validate:"required"`
	TieBand   float64         `mapstructure:"tie_band" validate:"gte=0"`
	Workers   int             `mapstructure:"workers" validate:"required,gt=0,lte=64"`
}

// DampeningConfig represents the star double-count dampening multipliers
type DampeningConfig struct {
	Recent           float64 `mapstructure:"recent" validate:"required,gt=0,lte=1"`
	Stale            float64 `mapstructure:"stale" validate:"required,gt=0,lte=1"`
	Default          float64 `mapstructure:"default" validate:"required,gt=0,lte=1"`
	SmallSampleGames int     `mapstructure:"small_sample_games" validate:"required,gt=0"`
}

// SchedulerConfig represents the slate refresh schedule
type SchedulerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SlateRefresh string `mapstructure:"slate_refresh" validate:"required,cronspec"`
	SnapshotPath string `mapstructure:"snapshot_path"`
	Persist      bool   `mapstructure:"persist"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// TracingConfig represents AWS X-Ray tracing configuration
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	SamplingRate float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
	DaemonAddr   string  `mapstructure:"daemon_addr"`
}

// SecretsConfig names the AWS Secrets Manager entry overlaid at startup
type SecretsConfig struct {
	Region   string `mapstructure:"region"`
	SecretID string `mapstructure:"secret_id"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// EnabledSources returns the feeds that are switched on, in configured order
func (c *Config) EnabledSources() []FeedConfig {
	out := make([]FeedConfig, 0, len(c.DataSources.Sources))
	for _, s := range c.DataSources.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// SecretsEnabled reports whether a secrets overlay is configured
func (c *Config) SecretsEnabled() bool {
	return c.Secrets.Region != "" && c.Secrets.SecretID != ""
}
