package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory so no stray .env is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, "https://api.figma.com/v1", cfg.Figma.APIBase)
	assert.Equal(t, 60*time.Second, cfg.Figma.Timeout)
	assert.Equal(t, "/files", cfg.Storage.URLPrefix)
	assert.Equal(t, 1920, cfg.Image.MaxWidth)
	assert.Equal(t, "png", cfg.Image.Format)
	assert.Equal(t, 85, cfg.Image.Quality)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Figma.OAuthEnabled())
	assert.Equal(t, "/files", cfg.FilesURL())
}

func TestLoadEnv(t *testing.T) {
	isolate(t)
	t.Setenv("FIGMA_BRIDGE_SERVER_ADDR", ":9000")
	t.Setenv("FIGMA_BRIDGE_IMAGE_MAX_WIDTH", "800")
	t.Setenv("FIGMA_BRIDGE_FIGMA_RATE_LIMIT", "2.5")
	t.Setenv("FIGMA_TOKEN", "figd_fallback")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 800, cfg.Image.MaxWidth)
	assert.Equal(t, 2.5, cfg.Figma.RateLimit)
	assert.Equal(t, "figd_fallback", cfg.Figma.Token)

	t.Setenv("FIGMA_BRIDGE_FIGMA_TOKEN", "figd_prefixed")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "figd_prefixed", cfg.Figma.Token)
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "figma-bridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":7000"
  public_url: "https://bridge.example.com/"
figma:
  client_id: abc
  client_secret: shh
image:
  format: jpeg
  quality: 70
`), 0644))

	t.Setenv("FIGMA_BRIDGE_IMAGE_QUALITY", "60")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "jpeg", cfg.Image.Format)
	assert.Equal(t, 60, cfg.Image.Quality, "env wins over file")
	assert.True(t, cfg.Figma.OAuthEnabled())
	assert.Equal(t, "https://bridge.example.com/files", cfg.FilesURL())
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FIGMA_BRIDGE_LOG_LEVEL=debug\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("FIGMA_BRIDGE_LOG_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	tests := map[string]string{
		"FIGMA_BRIDGE_IMAGE_FORMAT":       "gif",
		"FIGMA_BRIDGE_IMAGE_QUALITY":      "0",
		"FIGMA_BRIDGE_LOG_LEVEL":          "loud",
		"FIGMA_BRIDGE_STORAGE_URL_PREFIX": "files",
		"FIGMA_BRIDGE_FIGMA_RATE_LIMIT":   "-1",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
