package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("agrimart-gateway")
	require.NoError(t, err)

	assert.Equal(t, "agrimart-gateway", cfg.ServiceName)
	assert.Equal(t, "http://localhost:8081", cfg.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 1, cfg.Backend.RetryGETs)
	assert.Equal(t, 500*time.Millisecond, cfg.Backend.RetryBackoff)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "localhost:6379", cfg.Cache.Addr)
	assert.Equal(t, time.Minute, cfg.Cache.OfferTTL)
	assert.Equal(t, 10, cfg.Engine.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Engine.PollInterval)
	assert.Equal(t, 30*time.Minute, cfg.Engine.SessionTTL)
	assert.Equal(t, "agrimart-gateway", cfg.Metrics.Prefix)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://api.agrimart.example")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("BACKEND_RETRY_GETS", "2")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CATALOG_PAGE_SIZE", "25")
	t.Setenv("NOTIFY_POLL_INTERVAL", "5s")
	t.Setenv("CATALOG_SESSION_TTL", "10m")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load("agrimart-gateway")
	require.NoError(t, err)

	assert.Equal(t, "https://api.agrimart.example", cfg.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 2, cfg.Backend.RetryGETs)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 25, cfg.Engine.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Engine.PollInterval)
	assert.Equal(t, 10*time.Minute, cfg.Engine.SessionTTL)
	assert.Equal(t, 3, cfg.Cache.DB)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("BACKEND_RETRY_GETS", "plenty")
	t.Setenv("BACKEND_TIMEOUT", "soon")

	cfg, err := Load("agrimart-gateway")
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Backend.RetryGETs)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
}
