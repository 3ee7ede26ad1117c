package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invogen/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "gemini", cfg.Extractor.Primary.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Extractor.Primary.DefaultModel)
	assert.Equal(t, 60, cfg.Extractor.Primary.TimeoutSecs)
	assert.Equal(t, 18.0, cfg.Invoice.DefaultGSTRate)
	assert.Equal(t, int64(100), cfg.Invoice.RangeLower)
	assert.Equal(t, int64(500), cfg.Invoice.RangeUpper)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INVOGEN_SERVER_PORT", ":9090")
	t.Setenv("INVOGEN_EXTRACTOR_PRIMARY_PROVIDER", "openai")
	t.Setenv("INVOGEN_EXTRACTOR_PRIMARY_API_KEY", "sk-test")
	t.Setenv("INVOGEN_INVOICE_DEFAULT_GST_RATE", "12.5")
	t.Setenv("INVOGEN_SESSION_TTL", "30m")
	t.Setenv("INVOGEN_CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "openai", cfg.Extractor.Primary.Provider)
	assert.Equal(t, "sk-test", cfg.Extractor.Primary.APIKey)
	assert.Equal(t, 12.5, cfg.Invoice.DefaultGSTRate)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPortFallback(t *testing.T) {
	t.Setenv("PORT", "3333")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":3333", cfg.Server.Port)
}

func TestLoad_ExplicitPortBeatsPlatformPort(t *testing.T) {
	t.Setenv("PORT", "3333")
	t.Setenv("INVOGEN_SERVER_PORT", ":9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestSecondaryConfig(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Nil(t, cfg.Extractor.SecondaryConfig())

	t.Setenv("INVOGEN_EXTRACTOR_SECONDARY_PROVIDER", "openai")
	t.Setenv("INVOGEN_EXTRACTOR_SECONDARY_API_KEY", "sk-fallback")

	cfg, err = config.Load()
	require.NoError(t, err)

	secondary := cfg.Extractor.SecondaryConfig()
	require.NotNil(t, secondary)
	assert.Equal(t, "openai", secondary.Provider)
	assert.Equal(t, "sk-fallback", secondary.APIKey)
}

func TestS3Config_Enabled(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.False(t, cfg.S3.Enabled())

	t.Setenv("INVOGEN_S3_BUCKET", "invogen-logos")

	cfg, err = config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.S3.Enabled())
}
