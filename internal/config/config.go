// Package config provides configuration management for the application.
// Values are loaded from a YAML file and environment variables via Viper,
// with defaults applied in cmd/root.go.
package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// LoggerConfig holds logger settings.
type LoggerConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	Development bool     `mapstructure:"development"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig holds Redis settings for scrape-run bookkeeping.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ElasticsearchConfig holds the optional search index settings. Indexing is
// skipped entirely when Enabled is false.
type ElasticsearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	APIKey    string   `mapstructure:"api_key"`
	IndexName string   `mapstructure:"index_name"`
}

// ScraperConfig holds scraper fan-out settings shared by all sources.
type ScraperConfig struct {
	UserAgent           string            `mapstructure:"user_agent"`
	RequestTimeout      time.Duration     `mapstructure:"request_timeout"`
	SourceTimeout       time.Duration     `mapstructure:"source_timeout"`
	RatePerSecond       float64           `mapstructure:"rate_per_second"`
	Query               string            `mapstructure:"query"`
	Location            string            `mapstructure:"location"`
	MaxResults          int               `mapstructure:"max_results"`
	GreenhouseCompanies []string          `mapstructure:"greenhouse_companies"`
	LeverCompanies      []string          `mapstructure:"lever_companies"`
	RSSFeeds            map[string]string `mapstructure:"rss_feeds"`
	EnableLinkedIn      bool              `mapstructure:"enable_linkedin"`
	EnableGlassdoor     bool              `mapstructure:"enable_glassdoor"`
	Disabled            []string          `mapstructure:"disabled"`
}

// PipelineConfig holds ingest pipeline settings.
type PipelineConfig struct {
	ExportDir       string        `mapstructure:"export_dir"`
	Schedule        string        `mapstructure:"schedule"`
	RunTimeout      time.Duration `mapstructure:"run_timeout"`
	TriggerCooldown time.Duration `mapstructure:"trigger_cooldown"`
	HarvestTop      int           `mapstructure:"harvest_top"`
}

// Config represents the application configuration.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Logger        LoggerConfig        `mapstructure:"logger"`
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Scraper       ScraperConfig       `mapstructure:"scraper"`
	Pipeline      PipelineConfig      `mapstructure:"pipeline"`
}

// Load decodes the configuration currently held by Viper.
func Load() (*Config, error) {
	var cfg Config

	decoderConfig := &mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	}
	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return nil, fmt.Errorf("create config decoder: %w", err)
	}
	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that would fail at runtime.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	if c.Scraper.RequestTimeout <= 0 {
		return fmt.Errorf("scraper.request_timeout must be positive")
	}
	if c.Scraper.SourceTimeout <= 0 {
		return fmt.Errorf("scraper.source_timeout must be positive")
	}
	if c.Elasticsearch.Enabled && len(c.Elasticsearch.Addresses) == 0 {
		return fmt.Errorf("elasticsearch.addresses is required when elasticsearch.enabled")
	}
	return nil
}
