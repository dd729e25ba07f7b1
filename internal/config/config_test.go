package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"PORT", "RUN_MIGRATIONS", "RABBITMQ_URL", "CORS_ALLOW_ORIGINS", "NOTIFY_TIMEOUT"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.RunMigrations)
	assert.Empty(t, cfg.RabbitURL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 10*time.Second, cfg.NotifyTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("RUN_MIGRATIONS", "no")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://shop.example , ,https://admin.example")
	t.Setenv("NOTIFY_TIMEOUT", "not-a-duration")
	t.Setenv("SECURE_COOKIES", "TRUE")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.RunMigrations)
	assert.True(t, cfg.SecureCookies)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 10*time.Second, cfg.NotifyTimeout)
}

func TestLoad_ReadsDotEnvLocal(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("CALLMEBOT_PHONE=96181905703\n"), 0o600))

	require.NoError(t, os.Unsetenv("CALLMEBOT_PHONE"))
	t.Cleanup(func() { _ = os.Unsetenv("CALLMEBOT_PHONE") })

	cfg := Load()
	assert.Equal(t, "96181905703", cfg.CallMeBotPhone)
}

func TestLoadClient(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STOREFRONT_URL", "http://shop:8080")
	t.Setenv("STOREFRONT_STATE", "/tmp/state.json")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")

	cfg := LoadClient()
	assert.Equal(t, "http://shop:8080", cfg.BaseURL)
	assert.Equal(t, "/tmp/state.json", cfg.StatePath)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
}
