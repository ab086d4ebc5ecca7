package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lessonforge/lessonforge/core"
)

func TestLoad_MissingCredentialIsConfigError(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load(t.TempDir())

	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "GEMINI_API_KEY", cfgErr.Field)
}

func TestLoad_DefaultsWithEnvCredential(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, 2*time.Minute, cfg.RequestTimeout)
	assert.Equal(t, "https://en.wikipedia.org/w/api.php", cfg.ImageSearch.Endpoint)
	assert.Equal(t, 600, cfg.ImageSearch.ThumbWidth)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	dir := t.TempDir()
	yaml := "addr: \":9090\"\nmodel: gemini-2.0-pro\nimage_search:\n  thumb_width: 320\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "gemini-2.0-pro", cfg.Model)
	assert.Equal(t, 320, cfg.ImageSearch.ThumbWidth)
}
