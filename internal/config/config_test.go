package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RALLYUP_CONFIG", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "./rallyup.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 0.1, cfg.Temperature)
	assert.Empty(t, cfg.AnthropicAPIKey)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RALLYUP_HTTP_PORT", "9090")
	t.Setenv("RALLYUP_DB_PATH", "/tmp/test.db")
	t.Setenv("RALLYUP_LOG_LEVEL", "debug")
	t.Setenv("RALLYUP_ANTHROPIC_API_KEY", "prefixed-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "prefixed-key", cfg.AnthropicAPIKey)
}

func TestLoadUnprefixedAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "bare-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "bare-key", cfg.AnthropicAPIKey)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_port: 7070\nmodel: test-model\n"), 0o644))
	t.Setenv("RALLYUP_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.HTTPPort)
	assert.Equal(t, "test-model", cfg.Model)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_port: 7070\n"), 0o644))
	t.Setenv("RALLYUP_CONFIG", path)
	t.Setenv("RALLYUP_HTTP_PORT", "9191")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.HTTPPort)
}

func TestLoadEmptyDBPath(t *testing.T) {
	t.Setenv("RALLYUP_DB_PATH", "")

	// An explicitly empty override falls back to the default; only a YAML
	// file can blank it out entirely.
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`db_path: ""`+"\n"), 0o644))
	t.Setenv("RALLYUP_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}
