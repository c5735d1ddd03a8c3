package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandesk/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "loandesk", cfg.JWT.Issuer)
	assert.Equal(t, 12*time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.False(t, cfg.Workflow.EnforceAmountCap)
	assert.Equal(t, 20, cfg.Workflow.DefaultPageSize)
	assert.Equal(t, 100, cfg.Workflow.MaxPageSize)
	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 24*time.Hour, cfg.Redis.StatsCacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.Queue.ClaimTimeout)
	assert.Equal(t, "Asia/Karachi", cfg.Workflow.Timezone)
	require.NotNil(t, cfg.Workflow.Location)
	assert.Equal(t, "Asia/Karachi", cfg.Workflow.Location.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOANDESK_WORKFLOW_ENFORCE_AMOUNT_CAP", "true")
	t.Setenv("LOANDESK_REDIS_ADDR", "cache:6380")
	t.Setenv("LOANDESK_API_BASE_URL", "https://desk.example.org/api/")
	t.Setenv("LOANDESK_CORS_ALLOWED_ORIGINS", "https://a.example.org, ,https://b.example.org")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.Workflow.EnforceAmountCap)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, "https://desk.example.org/api", cfg.API.BaseURL)
	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9000")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Port)

	t.Setenv("LOANDESK_SERVER_PORT", ":7000")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Port)
}

func TestLoad_InvalidPageSize(t *testing.T) {
	t.Setenv("LOANDESK_WORKFLOW_DEFAULT_PAGE_SIZE", "0")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_Timezone(t *testing.T) {
	t.Setenv("LOANDESK_WORKFLOW_TIMEZONE", "UTC")
	t.Setenv("LOANDESK_QUEUE_CLAIM_TIMEOUT", "90s")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, cfg.Workflow.Location)
	assert.Equal(t, 90*time.Second, cfg.Queue.ClaimTimeout)

	t.Setenv("LOANDESK_WORKFLOW_TIMEZONE", "Mars/Olympus")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	d := config.DBConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "require"}

	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=require", d.DSN())
}
