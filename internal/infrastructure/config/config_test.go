package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host: "localhost",
			Port: 5432,
		},
		Redis: RedisConfig{
			Port: 6379,
		},
		Analytics: AnalyticsConfig{
			CacheTTL:    time.Minute,
			TrendMonths: 6,
		},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORS.AllowedOrigins)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 60*time.Second, cfg.Analytics.CacheTTL)
	assert.Equal(t, 6, cfg.Analytics.TrendMonths)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTExpiry)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FINTRACK_INSTANCE_ID", "fintrack-7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fintrack-7", cfg.InstanceID)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectedErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "zero port",
			mutate:      func(c *Config) { c.Server.Port = 0 },
			expectedErr: "server.port",
		},
		{
			name:        "port out of range",
			mutate:      func(c *Config) { c.Server.Port = 70000 },
			expectedErr: "server.port",
		},
		{
			name:        "missing read timeout",
			mutate:      func(c *Config) { c.Server.ReadTimeout = 0 },
			expectedErr: "server.read_timeout",
		},
		{
			name:        "missing database host",
			mutate:      func(c *Config) { c.Database.Host = "" },
			expectedErr: "database.host",
		},
		{
			name:        "zero redis port",
			mutate:      func(c *Config) { c.Redis.Port = 0 },
			expectedErr: "redis.port",
		},
		{
			name:        "negative cache ttl",
			mutate:      func(c *Config) { c.Analytics.CacheTTL = -time.Second },
			expectedErr: "analytics.cache_ttl",
		},
		{
			name:        "zero trend months",
			mutate:      func(c *Config) { c.Analytics.TrendMonths = 0 },
			expectedErr: "analytics.trend_months",
		},
		{
			name:        "short jwt secret",
			mutate:      func(c *Config) { c.Auth.JWTSecret = "tooshort" },
			expectedErr: "auth.jwt_secret",
		},
		{
			name:   "long jwt secret accepted",
			mutate: func(c *Config) { c.Auth.JWTSecret = strings.Repeat("s", 32) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectedErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Database.Host = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "database.host")
}

func TestValidate_ProductionRequirements(t *testing.T) {
	t.Setenv("ENV", "production")

	cfg := validConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.password")
	assert.Contains(t, err.Error(), "auth.jwt_secret")

	cfg.Database.Password = "s3cret"
	cfg.Auth.JWTSecret = strings.Repeat("s", 32)
	assert.NoError(t, cfg.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "fintrack",
		Password: "secret",
		Database: "fintrack",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=localhost port=5432 user=fintrack password=secret dbname=fintrack sslmode=disable", cfg.DatabaseDSN())
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "localhost", Port: 6379}
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}
