package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	cfg := Default("Global Goods Trading Solution")
	cfg.Business.IssuerAliases = []string{"GLOBAL GOODS"}
	cfg.API.BaseURL = "https://flow.example.com"
	cfg.Logging.Level = "debug"

	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Global Goods Trading Solution", got.Business.Name)
	assert.Equal(t, []string{"GLOBAL GOODS"}, got.Business.IssuerAliases)
	assert.Equal(t, "https://flow.example.com", got.API.BaseURL)
	assert.Equal(t, "SETTLED_API_KEY", got.API.KeyEnv)
	assert.Equal(t, "debug", got.Logging.Level)
	assert.True(t, got.Git.AutoCommit)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestAPIKey(t *testing.T) {
	cfg := Default("x")

	t.Setenv("SETTLED_API_KEY", "sk-test-123")
	key, err := cfg.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", key)

	t.Setenv("SETTLED_API_KEY", "")
	_, err = cfg.APIKey()
	require.Error(t, err)

	cfg.API.KeyEnv = ""
	_, err = cfg.APIKey()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key_env is not configured")
}

func TestVisionKey(t *testing.T) {
	cfg := Default("x")
	t.Setenv("GOOGLE_CLOUD_API_KEY", "vision-key")

	// Disabled by default.
	assert.Empty(t, cfg.VisionKey())

	cfg.Vision.Enabled = true
	assert.Equal(t, "vision-key", cfg.VisionKey())

	cfg.Vision.KeyEnv = ""
	assert.Empty(t, cfg.VisionKey())
}
