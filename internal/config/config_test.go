package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "APP_ENV", "LOG_LEVEL", "ASSISTANT_URL", "ASSISTANT_TIMEOUT", "REMINDER_CRON", "CHAT_RATE_PER_MIN", "SESSION_MAX_AGE", "ALLOWED_ORIGINS", "ROLLBAR_TOKEN"} {
		unsetenv(t, key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.AssistantTimeout)
	assert.Equal(t, "@every 1m", cfg.ReminderCron)
	assert.Equal(t, 20, cfg.ChatRatePerMin)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionMaxAge)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.AssistantURL)
	assert.Empty(t, cfg.RollbarToken)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://mindcare.example.edu, ,https://admin.example.edu")
	t.Setenv("ASSISTANT_TIMEOUT", "5s")
	t.Setenv("CHAT_RATE_PER_MIN", "3")
	t.Setenv("SESSION_MAX_AGE", "1h")
	t.Setenv("REMINDER_CRON", "*/5 * * * *")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://mindcare.example.edu", "https://admin.example.edu"}, cfg.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.AssistantTimeout)
	assert.Equal(t, 3, cfg.ChatRatePerMin)
	assert.Equal(t, time.Hour, cfg.SessionMaxAge)
	assert.Equal(t, "*/5 * * * *", cfg.ReminderCron)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("PORT", "8080")
	t.Setenv("ASSISTANT_TIMEOUT", "soon")
	_, err = Load()
	assert.Error(t, err)
}
