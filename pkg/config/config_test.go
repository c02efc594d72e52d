package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PRICEWISE_MODEL_PATH", "")
	t.Setenv("PREDICTION_LOG_ENABLED", "")
	t.Setenv("REDIS_ENABLED", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("CACHE_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pricewise_model.yaml", cfg.Model.Path)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.False(t, cfg.PredictionLog.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, time.Hour, cfg.Redis.CacheTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PRICEWISE_MODEL_PATH", "/models/discount.yaml")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("PREDICTION_LOG_ENABLED", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/models/discount.yaml", cfg.Model.Path)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 2, cfg.Redis.RedisDB)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
}

func TestPredictionLogRequiresSecrets(t *testing.T) {
	t.Setenv("PREDICTION_LOG_ENABLED", "true")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.EqualError(t, err, "missing jwt secret")

	t.Setenv("DB_PASSWORD", "")
	_, err = Load()
	assert.EqualError(t, err, "missing database password")
}

func TestInvalidDurations(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}
