package app_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/todo/internal/app"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000; https://todo.example.com;")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := app.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.JWTExpireMinutes)
	assert.Equal(t, []string{"http://localhost:3000", "https://todo.example.com"}, cfg.Origins())
	assert.True(t, cfg.ServeSwagger())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsShortKey(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_KEY", "too-short")

	_, err := app.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsBlankOrigins(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", " ; ")

	_, err := app.LoadConfig()
	assert.Error(t, err)
}

func TestSwaggerDisabledInProduction(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")

	cfg, err := app.LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.ServeSwagger())

	t.Setenv("SWAGGER_ENABLED", "true")
	cfg, err = app.LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.ServeSwagger())
}

func TestLoadWorkerConfigNeedsNoAPISettings(t *testing.T) {
	t.Setenv("JWT_KEY", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("WORKER_CONCURRENCY", "3")

	cfg, err := app.LoadWorkerConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.WorkerConcurrency)
	assert.Equal(t, ":9091", cfg.WorkerMetricsAddr)
	assert.Equal(t, 10*time.Minute, cfg.RoleCacheTTL)

	t.Setenv("WORKER_CONCURRENCY", "0")
	_, err = app.LoadWorkerConfig()
	assert.Error(t, err)
}
