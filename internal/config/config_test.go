package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, 100, cfg.RateLimit.GeneralRequests)
	assert.Equal(t, 10, cfg.RateLimit.AuthRequests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.NotEmpty(t, cfg.JWT.Secret)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("RATE_LIMIT_AUTH_REQUESTS", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, 3, cfg.RateLimit.AuthRequests)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("JWT_EXPIRY", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
	assert.Equal(t, 5*24*time.Hour, cfg.JWT.Expiry)
}

func TestLoad_ConfigFileOverlay(t *testing.T) {
	t.Setenv("UPLOAD_ROOT", "/srv/files")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: \"9090\"\nuploads:\n  dir: ${UPLOAD_ROOT}/uploads\nanalytics:\n  timezone: UTC\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/srv/files/uploads", cfg.Uploads.Dir)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestValidate_BadTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_EmptyOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " , ")

	_, err := Load()
	assert.ErrorContains(t, err, "CORS_ALLOWED_ORIGINS")
}
