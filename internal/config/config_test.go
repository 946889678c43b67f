package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("AZURE_CLIENT_ID", "")
}

func TestLoad_Defaults(t *testing.T) {
	validEnv(t)
	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.False(t, cfg.AllowTierSkip)
	assert.Equal(t, 5*time.Minute, cfg.IdempotencyTTL())
	assert.Equal(t, "Africa/Tunis", cfg.AttendanceZone)
	assert.True(t, cfg.LunchThresholdHours.Equal(decimal.NewFromInt(9)))
	assert.True(t, cfg.MonthlyCapHours.Equal(decimal.RequireFromString("173.33")))
	assert.Equal(t, 8*time.Hour+30*time.Minute, cfg.LateAfter)
	assert.Equal(t, uint64(40000), cfg.BadgeBlockThreshold)
}

func TestLoad_Overrides(t *testing.T) {
	validEnv(t)
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("ALLOW_TIER_SKIP_BY_HIGHER_APPROVER", "true")
	t.Setenv("MISSION_CEO_BUDGET_THRESHOLD", "2500.50")
	t.Setenv("HR_MANAGER_ID", "40")
	t.Setenv("DEVICE_SYNC_INTERVAL", "15m")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.True(t, cfg.AllowTierSkip)
	assert.True(t, cfg.MissionCEOThreshold.Equal(decimal.RequireFromString("2500.5")))
	assert.Equal(t, uint64(40), cfg.HRManagerID)
	assert.Equal(t, 15*time.Minute, cfg.SyncInterval)
	assert.Equal(t, 0, cfg.RedisDB, "malformed values keep the default")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"driver", func(c *Config) { c.DBDriver = "sqlite" }, "DB_DRIVER"},
		{"db host", func(c *Config) { c.DBHost = "" }, "database config"},
		{"db port", func(c *Config) { c.DBPort = "not-a-port" }, "DB_PORT"},
		{"jwt", func(c *Config) { c.JWTSecret = "short" }, "JWT_SECRET"},
		{"ttl", func(c *Config) { c.IdempTTLSecs = 0 }, "IDEMPOTENCY_TTL_SECONDS"},
		{"oauth", func(c *Config) { c.OAuthClientID = "app"; c.OAuthRefreshToken = "" }, "AZURE_REFRESH_TOKEN"},
		{"zone", func(c *Config) { c.AttendanceZone = "Mars/Olympus" }, "ATTENDANCE_TIMEZONE"},
		{"badge", func(c *Config) { c.BadgeBlockModulo = 0 }, "BADGE_BLOCK"},
		{"cap", func(c *Config) { c.MonthlyCapHours = decimal.Zero }, "monthly cap"},
		{"sync", func(c *Config) { c.SyncConcurrency = 0 }, "sync concurrency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validEnv(t)
			cfg := Load()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBDriver: "mysql", DBHost: "db", DBPort: "3306", DBName: "hr", DBUser: "u", DBPass: "p@ss"}
	assert.Equal(t, "u:p@ss@tcp(db:3306)/hr?parseTime=true&loc=UTC&charset=utf8mb4", cfg.DSN())

	cfg.DBDriver = "postgres"
	cfg.DBPort = "5432"
	assert.Equal(t, "postgres://u:p%40ss@db:5432/hr?sslmode=disable&TimeZone=UTC", cfg.DSN())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(f, []byte("HRFLOW_TEST_A=from-file\nHRFLOW_TEST_B=from-file\n"), 0o600))

	t.Setenv("HRFLOW_TEST_A", "")
	t.Setenv("HRFLOW_TEST_B", "from-env")
	require.NoError(t, os.Unsetenv("HRFLOW_TEST_A"))

	require.NoError(t, LoadDotEnv(f))
	assert.Equal(t, "from-file", os.Getenv("HRFLOW_TEST_A"))
	assert.Equal(t, "from-env", os.Getenv("HRFLOW_TEST_B"), "existing variables win")

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
