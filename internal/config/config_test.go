package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "")
	t.Setenv("SESSION_TTL_MINUTES", "")

	cfg := Load()

	assert.Equal(t, 10, cfg.Retrieval.TopK)
	assert.Equal(t, 4, cfg.Retrieval.FinalK)
	assert.Equal(t, 0, cfg.Session.TTLMinutes)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "20")
	t.Setenv("RETRIEVAL_THRESHOLD", "0.35")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("GO_ENV", "production")

	cfg := Load()

	assert.Equal(t, 20, cfg.Retrieval.TopK)
	assert.InDelta(t, 0.35, cfg.Retrieval.Threshold, 1e-9)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.True(t, cfg.IsProduction())
}

func TestGetEnvHelpers_FallbackOnGarbage(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "letters", value: "abc"},
		{name: "empty", value: ""},
		{name: "float for int", value: "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CFG_TEST_VALUE", tt.value)
			assert.Equal(t, 7, getEnvAsInt("CFG_TEST_VALUE", 7))
			assert.False(t, getEnvAsBool("CFG_TEST_VALUE", false))
		})
	}
}

func TestDatabaseConfig_GormOptions(t *testing.T) {
	t.Setenv("DB_LOG_LEVEL", "info")
	t.Setenv("DB_SLOW_QUERY_MS", "250")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")

	opts := Load().Database.GormOptions()
	assert.Equal(t, "info", opts.LogLevel)
	assert.Equal(t, 250*time.Millisecond, opts.SlowThreshold)
	assert.Equal(t, 7, opts.MaxOpenConns)
}
