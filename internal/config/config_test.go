package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequired(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("DB_DATABASE", "lookout.db")
	t.Setenv("JWT_SECRET", testSecret)
}

// unsetenv clears keys for the test and restores them afterwards
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, 10, cfg.DBConnectionLimit)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 25*1024*1024, cfg.UploadMaxBytes)
	assert.False(t, cfg.StorageEnabled())
	assert.False(t, cfg.MailEnabled())
}

func TestLoadRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DATABASE", "")
	_, err := Load()
	assert.ErrorContains(t, err, "DB_DATABASE")

	setRequired(t)
	t.Setenv("JWT_SECRET", "short")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	setRequired(t)
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	_, err = Load()
	assert.ErrorContains(t, err, "ADMIN_PASSWORD")

	setRequired(t)
	t.Setenv("SENDGRID_API_KEY", "SG.key")
	_, err = Load()
	assert.ErrorContains(t, err, "MAIL_FROM_ADDRESS")
}

func TestLoadEnvFile(t *testing.T) {
	setRequired(t)
	unsetenv(t, "PORT", "DB_TYPE", "SESSION_TTL", "COOKIE_SECURE")

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=4100\nDB_TYPE=Postgres\nSESSION_TTL=2h\nCOOKIE_SECURE=true\n"), 0o600))
	t.Setenv("ENV_FILE", envFile)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "4100", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_CONNECTION_LIMIT", "many")
	t.Setenv("SESSION_TTL", "a week")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.DBConnectionLimit)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
}
