package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "notekeeper", cfg.Storage.KeyringService)
	assert.True(t, cfg.Preferences.NotificationsEnabled)
	assert.False(t, cfg.Preferences.ThemeDark)
	assert.False(t, cfg.Reminders.CompleteOnFire)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("preferences:\n  theme_dark: true\nreminders:\n  complete_on_fire: true\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Preferences.ThemeDark)
	assert.True(t, cfg.Preferences.NotificationsEnabled)
	assert.True(t, cfg.Reminders.CompleteOnFire)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
}

func TestLoadConfig_UnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: floppy\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := defaultAppConfig()
	cfg.Storage.Backend = BackendKeyring
	cfg.Storage.Path = "/tmp/notekeeper-ring"
	cfg.Preferences.ThemeDark = true
	cfg.Preferences.NotificationsEnabled = false
	cfg.Log.Level = "debug"

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
