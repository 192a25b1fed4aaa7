package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.ApiServicePort)
	assert.Equal(t, int64(10), cfg.AccessTokenExpiration)
	assert.Equal(t, int64(86400), cfg.RefreshTokenExpiration)
	assert.Equal(t, int64(128), cfg.RefreshTokenLength)
	assert.Equal(t, int64(600), cfg.AddressCacheTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("ACCESS_TOKEN_EXPIRATION", "900")
	t.Setenv("REFRESH_TOKEN_LENGTH", "64")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := LoadConfig()

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, int64(900), cfg.AccessTokenExpiration)
	assert.Equal(t, int64(64), cfg.RefreshTokenLength)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadConfig_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRATION", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, int64(10), cfg.AccessTokenExpiration)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgreSQLHost:     "db.internal",
		PostgreSQLPort:     5433,
		PostgreSQLUser:     "svc",
		PostgreSQLPassword: "hunter2",
		PostgreSQLDatabase: "catalog",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "port=5433")
	assert.Contains(t, dsn, "dbname=catalog")
	assert.Contains(t, dsn, "sslmode=disable")
}
