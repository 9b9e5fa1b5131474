package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithDefaults(t *testing.T) {
	// Clear any existing environment variables that might interfere
	os.Clearenv()

	config, err := Load()
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, config.Server.AllowedOrigins)
	assert.Equal(t, "localhost", config.Database.Host)
	assert.Equal(t, 5432, config.Database.Port)
	assert.Equal(t, "postgres", config.Database.User)
	assert.Equal(t, "farecast", config.Database.DBName)
	assert.Equal(t, "disable", config.Database.SSLMode)
	assert.Equal(t, 25, config.Database.MaxOpenConns)
	assert.Equal(t, "localhost", config.Redis.Host)
	assert.Equal(t, 6379, config.Redis.Port)
	assert.Equal(t, 0, config.Redis.DB)
	assert.Equal(t, "15s", config.Providers.SearchTimeout)
	assert.Empty(t, config.Providers.Adapters)
	assert.Equal(t, 90, config.History.RetentionDays)
	assert.Equal(t, 60, config.History.CleanupIntervalMinutes)
	assert.Equal(t, 180, config.Seasonal.FreshnessDays)
	assert.Equal(t, "30m", config.FareCache.TTL)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	os.Clearenv()
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DATABASE_HOST", "prod-db.example.com")
	t.Setenv("REDIS_HOST", "prod-redis.example.com")
	t.Setenv("PROVIDERS_SEARCH_TIMEOUT", "20s")
	t.Setenv("HISTORY_RETENTION_DAYS", "30")
	t.Setenv("SEASONAL_FRESHNESS_DAYS", "365")
	t.Setenv("FARE_CACHE_TTL", "1h")

	config, err := Load()
	require.NoError(t, err)

	// Environment is normalized to lower case.
	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, "error", config.LogLevel)
	assert.Equal(t, 9000, config.Server.Port)
	assert.Equal(t, "prod-db.example.com", config.Database.Host)
	assert.Equal(t, "prod-redis.example.com", config.Redis.Host)
	assert.Equal(t, "20s", config.Providers.SearchTimeout)
	assert.Equal(t, 30, config.History.RetentionDays)
	assert.Equal(t, 365, config.Seasonal.FreshnessDays)
	assert.Equal(t, "1h", config.FareCache.TTL)
}

func TestLoad_InvalidSearchTimeout(t *testing.T) {
	os.Clearenv()
	t.Setenv("PROVIDERS_SEARCH_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid provider search timeout")
}

func TestLoad_InvalidRetention(t *testing.T) {
	os.Clearenv()
	t.Setenv("HISTORY_RETENTION_DAYS", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retention days must be positive")
}

func TestProvidersConfig_SearchTimeoutDuration(t *testing.T) {
	tests := []struct {
		name     string
		timeout  string
		expected time.Duration
	}{
		{"valid duration", "10s", 10 * time.Second},
		{"empty falls back", "", 15 * time.Second},
		{"garbage falls back", "soon", 15 * time.Second},
		{"non-positive falls back", "-5s", 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ProvidersConfig{SearchTimeout: tt.timeout}
			assert.Equal(t, tt.expected, cfg.SearchTimeoutDuration())
		})
	}
}

func TestFareCacheConfig_TTLDuration(t *testing.T) {
	cfg := FareCacheConfig{TTL: "45m"}
	assert.Equal(t, 45*time.Minute, cfg.TTLDuration())

	cfg = FareCacheConfig{}
	assert.Equal(t, 30*time.Minute, cfg.TTLDuration())
}

func TestProviderConfig_Struct(t *testing.T) {
	cfg := ProviderConfig{
		Name:      "amadeus",
		BaseURL:   "https://api.example.com",
		TokenPath: "/v1/security/oauth2/token",
		APIKey:    "key",
		APISecret: "secret",
		Priority:  1,
		Enabled:   true,
	}

	assert.Equal(t, "amadeus", cfg.Name)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 1, cfg.Priority)
	assert.True(t, cfg.Enabled)
}
