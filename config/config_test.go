package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bokra/hrms/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.UsesMemoryStore())
	assert.False(t, cfg.EnforceBalance)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, time.Hour, cfg.AuditInterval)
	assert.Nil(t, cfg.Seed)
	assert.True(t, cfg.SeedDemo())
	assert.NoError(t, cfg.Validate())
}

func TestSeedDemo(t *testing.T) {
	tests := []struct {
		name string
		db   string
		seed string
		want bool
	}{
		{"memory store seeds by default", "", "", true},
		{"sqlite does not seed by default", "/tmp/hrms.db", "", false},
		{"sqlite seeds when asked", "/tmp/hrms.db", "true", true},
		{"memory store opt out", "", "false", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HRMS_DB", tt.db)
			if tt.seed != "" {
				t.Setenv("HRMS_SEED", tt.seed)
			}

			cfg, err := config.Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.SeedDemo())
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("HRMS_ADDR", ":9090")
	t.Setenv("HRMS_DB", "/tmp/hrms.db")
	t.Setenv("HRMS_MOCK_LATENCY", "250ms")
	t.Setenv("HRMS_ENFORCE_BALANCE", "true")
	t.Setenv("HRMS_CORS_ORIGINS", "https://hr.bokra.example,http://localhost:5173")
	t.Setenv("HRMS_LOG_FORMAT", "console")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.False(t, cfg.UsesMemoryStore())
	assert.Equal(t, 250*time.Millisecond, cfg.MockLatency)
	assert.True(t, cfg.EnforceBalance)
	assert.Equal(t, []string{"https://hr.bokra.example", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("HRMS_MOCK_LATENCY", "soon")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg, err := config.Load()
		require.NoError(t, err)
		return cfg
	}

	cfg := valid()
	cfg.LogFormat = "xml"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.RateLimit = -1
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.AuditInterval = -time.Second
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Addr = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.ShutdownTimeout = 0
	assert.Error(t, cfg.Validate())
}
