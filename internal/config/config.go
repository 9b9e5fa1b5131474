package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Providers   ProvidersConfig `mapstructure:"providers"`
	History     HistoryConfig   `mapstructure:"history"`
	Seasonal    SeasonalConfig  `mapstructure:"seasonal"`
	FareCache   FareCacheConfig `mapstructure:"fare_cache"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ProvidersConfig configures the external fare providers. Adapter order
// after sorting by Priority decides which provider wins an exact price
// tie during deduplication and the fallback order for flex-date
// re-queries.
type ProvidersConfig struct {
	SearchTimeout string           `mapstructure:"search_timeout"`
	Adapters      []ProviderConfig `mapstructure:"adapters"`
}

type ProviderConfig struct {
	Name      string `mapstructure:"name"`
	BaseURL   string `mapstructure:"base_url"`
	TokenPath string `mapstructure:"token_path"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret" json:"-" yaml:"-"`
	Priority  int    `mapstructure:"priority"`
	Enabled   bool   `mapstructure:"enabled"`
}

type HistoryConfig struct {
	RetentionDays          int `mapstructure:"retention_days"`
	CleanupIntervalMinutes int `mapstructure:"cleanup_interval_minutes"`
}

type SeasonalConfig struct {
	FreshnessDays int `mapstructure:"freshness_days"`
}

type FareCacheConfig struct {
	TTL string `mapstructure:"ttl"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if config.Providers.SearchTimeout != "" {
		if _, err := time.ParseDuration(config.Providers.SearchTimeout); err != nil {
			return nil, fmt.Errorf("invalid provider search timeout: %w", err)
		}
	}
	if config.FareCache.TTL != "" {
		if _, err := time.ParseDuration(config.FareCache.TTL); err != nil {
			return nil, fmt.Errorf("invalid fare cache TTL: %w", err)
		}
	}
	if config.History.RetentionDays <= 0 {
		return nil, fmt.Errorf("history retention days must be positive, got %d", config.History.RetentionDays)
	}
	if config.Seasonal.FreshnessDays <= 0 {
		return nil, fmt.Errorf("seasonal freshness days must be positive, got %d", config.Seasonal.FreshnessDays)
	}

	return &config, nil
}

// SearchTimeoutDuration returns the per-provider search timeout.
func (c *ProvidersConfig) SearchTimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(c.SearchTimeout); err == nil && d > 0 {
		return d
	}
	return 15 * time.Second
}

// TTLDuration returns the fare cache TTL.
func (c *FareCacheConfig) TTLDuration() time.Duration {
	if d, err := time.ParseDuration(c.TTL); err == nil && d > 0 {
		return d
	}
	return 30 * time.Minute
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "farecast")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.conn_max_lifetime", "300s")

	// Redis
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Providers
	viper.SetDefault("providers.search_timeout", "15s")

	// History
	viper.SetDefault("history.retention_days", 90)
	viper.SetDefault("history.cleanup_interval_minutes", 60)

	// Seasonal model
	viper.SetDefault("seasonal.freshness_days", 180)

	// Fare cache
	viper.SetDefault("fare_cache.ttl", "30m")
}
