package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"study/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	cfg, err := config.FromViper(config.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "memory", cfg.SessionStorage)
	assert.Equal(t, "none", cfg.EventsBroker)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "development-secret", cfg.JWTSecret)
	assert.False(t, cfg.IsProduction())
}

func TestFromViperEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := config.FromViper(config.New())
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, "memory", cfg.DatabaseDriver)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestFromViperRejectsInvalidValues(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "oracle")
		_, err := config.FromViper(config.New())
		assert.ErrorContains(t, err, "DATABASE_DRIVER")
	})
	t.Run("broker", func(t *testing.T) {
		t.Setenv("EVENTS_BROKER", "kafka")
		_, err := config.FromViper(config.New())
		assert.ErrorContains(t, err, "EVENTS_BROKER")
	})
	t.Run("production without secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		_, err := config.FromViper(config.New())
		assert.ErrorContains(t, err, "JWT_SECRET")
	})
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "study.yaml")
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT: \":7070\"\nEVENTS_BROKER: redis\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.AppPort)
	assert.Equal(t, "redis", cfg.EventsBroker)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
