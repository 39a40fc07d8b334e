package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata"))
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.True(t, cfg.Database.Postgres.Enabled)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, 5433, cfg.Database.Postgres.Port)

	require.Equal(t, "https://www.novalearn.example.com/", cfg.Site.BaseURL)

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "novalearn-test", cfg.Auth.JWT.Issuer)
	require.Equal(t, 30*time.Minute, cfg.Auth.JWT.TTL)

	// Overridden franchise TTL; admin and staff keep defaults.
	require.Equal(t, 72*time.Hour, cfg.Portals.Franchise.TokenTTL)
	require.Equal(t, 24*time.Hour, cfg.Portals.Admin.TokenTTL)
	require.Equal(t, 24*time.Hour, cfg.Portals.Staff.TokenTTL)
	require.Equal(t, "@novalearn.com", cfg.Portals.Staff.DomainSuffix)
	require.Empty(t, cfg.Portals.Admin.DomainSuffix)

	require.True(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, "smtp.example.com", cfg.Email.SMTP.Host)
	require.Equal(t, 2525, cfg.Email.SMTP.Port)
	require.False(t, cfg.Email.SMTP.UseTLS)
	require.Equal(t, 5*time.Second, cfg.Email.SMTP.Timeout)

	require.True(t, cfg.Messaging.Enabled)
	require.Equal(t, "AC123", cfg.Messaging.AccountSID)
	require.Equal(t, "+15550000000", cfg.Messaging.From)
	require.Equal(t, 3*time.Second, cfg.Messaging.Timeout)

	require.Equal(t, "+44", cfg.Reminders.CountryCode)
	require.Equal(t, "job-secret", cfg.Reminders.JobToken)
	require.Equal(t, "*/10 * * * *", cfg.Reminders.CronSpec)
	require.Equal(t, 14, cfg.Reminders.Retention)

	require.False(t, cfg.Monitoring.Prometheus.Enabled)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "http://localhost:3000", cfg.Site.BaseURL)
	require.Equal(t, time.Hour, cfg.Auth.JWT.TTL)
	require.Equal(t, "novalearn", cfg.Auth.JWT.Issuer)
	require.Equal(t, 7*24*time.Hour, cfg.Portals.Franchise.TokenTTL)
	require.False(t, cfg.Email.SMTP.Enabled)
	require.False(t, cfg.Messaging.Enabled)
	require.Equal(t, "+234", cfg.Reminders.CountryCode)
	require.Equal(t, 30, cfg.Reminders.Retention)
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("NOVALEARN_SERVER_PORT", "9999")
	t.Setenv("NOVALEARN_REMINDERS_COUNTRY_CODE", "+233")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, "+233", cfg.Reminders.CountryCode)
}
