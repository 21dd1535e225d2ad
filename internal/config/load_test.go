package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithDatabaseURL(t *testing.T) {
	t.Setenv("DISPATCH_DATABASE_URL", "postgres://localhost:5432/dispatch")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://localhost:5432/dispatch", cfg.Database.URL)
	assert.Equal(t, "localhost", cfg.SMTP.Host)
	assert.Equal(t, 25, cfg.SMTP.Port)
	assert.Equal(t, 2, cfg.Worker.Count)
	assert.Equal(t, 100, cfg.Worker.QueueSize)
	assert.Equal(t, 5*time.Second, cfg.Worker.TaskDuration)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DISPATCH_DATABASE_URL", "postgres://localhost:5432/dispatch")
	t.Setenv("DISPATCH_SERVER_PORT", "9090")
	t.Setenv("DISPATCH_SERVER_LOG_LEVEL", "debug")
	t.Setenv("DISPATCH_SMTP_HOST", "mail.internal")
	t.Setenv("DISPATCH_WORKER_COUNT", "8")
	t.Setenv("DISPATCH_WORKER_TASK_DURATION", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "mail.internal", cfg.SMTP.Host)
	assert.Equal(t, 8, cfg.Worker.Count)
	assert.Equal(t, 250*time.Millisecond, cfg.Worker.TaskDuration)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DISPATCH_DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoad_RejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("DISPATCH_DATABASE_URL", "postgres://localhost:5432/dispatch")
	t.Setenv("DISPATCH_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
}
