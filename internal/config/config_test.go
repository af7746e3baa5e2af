package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "Dev")
	t.Setenv("ENABLE_API_DOCS", "yes")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("LOGIN_RATE_LIMIT", "5")
	t.Setenv("LOGIN_RATE_WINDOW_SECONDS", "30")
	t.Setenv("S3_BUCKET", "gym-media")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.DocsEnabled())
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 5, cfg.LoginRateLimit)
	assert.Equal(t, 30*time.Second, cfg.LoginRateWindow)
	assert.True(t, cfg.S3Enabled())
	assert.False(t, cfg.SupabaseEnabled())
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 7, getEnvInt("SOME_INT", 7))

	t.Setenv("SOME_INT", "-3")
	assert.Equal(t, 7, getEnvInt("SOME_INT", 7))

	t.Setenv("SOME_INT", " 12 ")
	assert.Equal(t, 12, getEnvInt("SOME_INT", 7))
}

func TestDocsEnabledOnlyInDevelopment(t *testing.T) {
	cfg := &Config{EnableDocs: true, AppEnv: "production"}
	assert.False(t, cfg.DocsEnabled())

	var nilCfg *Config
	assert.False(t, nilCfg.DocsEnabled())
}
