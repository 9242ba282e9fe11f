package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/paywall")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GHOST_URL", "https://ghost.example.com/")
	t.Setenv("GHOST_CONTENT_API_KEY", "key")
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "https://ghost.example.com", cfg.GhostURL)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionMaxAge)
	assert.True(t, cfg.AuditAsync)
	assert.False(t, cfg.GoogleEnabled())
}

func TestFromEnv_MissingKeysAreReportedTogether(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GHOST_URL", "https://ghost.example.com")
	t.Setenv("GHOST_CONTENT_API_KEY", "key")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_URL")
	assert.Contains(t, err.Error(), "REDIS_URL")
}

func TestFromEnv_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "Production")
	t.Setenv("SESSION_MAX_AGE", "48h")
	t.Setenv("AUDIT_ASYNC", "false")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 48*time.Hour, cfg.SessionMaxAge)
	assert.False(t, cfg.AuditAsync)
}

func TestFromEnv_InvalidDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_TTL", "soon")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnv_GoogleRequiresSecretAndRedirect(t *testing.T) {
	setRequired(t)
	t.Setenv("GOOGLE_CLIENT_ID", "client")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")
	t.Setenv("GOOGLE_REDIRECT_URL", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_CLIENT_SECRET")
}

func TestLoadDatabaseURL(t *testing.T) {
	t.Setenv("DB_URL", "")
	_, err := LoadDatabaseURL()
	assert.Error(t, err)

	t.Setenv("DB_URL", "postgres://localhost/paywall")
	dsn, err := LoadDatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/paywall", dsn)
}
