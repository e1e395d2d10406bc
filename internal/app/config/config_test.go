package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientConfig_Origins(t *testing.T) {
	c := ClientConfig{
		URL:            "https://sneakup.shop",
		AltURL:         "http://localhost:5173",
		AllowedOrigins: []string{"", "https://admin.sneakup.shop", "https://sneakup.shop"},
	}
	assert.Equal(t, []string{
		"http://localhost:5173",
		"https://sneakup.shop",
		"https://admin.sneakup.shop",
	}, c.Origins())
}

func TestLoadConfig_EnvOnly(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "8088")
	t.Setenv("RATE_LIMIT_AUTH", "10")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8088", cfg.HTTPServer.Port)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 720*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.RateLimit.AuthRequests)
	assert.Equal(t, 100, cfg.RateLimit.APIRequests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "sneakup", cfg.MongoDB.Database)
	assert.Empty(t, cfg.NATS.URL)
}

func TestLoadConfig_MissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "5001", cfg.HTTPServer.Port)
}

func TestLoadConfig_YAML(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "env: prod\nstripe:\n  currency: eur\nproduct_cache:\n  ttl: 30s\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "eur", cfg.Stripe.Currency)
	assert.Equal(t, 30*time.Second, cfg.ProductCache.TTL)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	_, err := LoadConfig("")
	assert.Error(t, err)
}
