package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ADMINCTL_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	require.Equal(t, 30*time.Second, cfg.API.Timeout)
	require.Equal(t, 5*time.Second, cfg.UI.ToastDuration)
	require.Equal(t, 300*time.Millisecond, cfg.UI.ToastExit)
	require.Equal(t, time.Second, cfg.Actions.DeleteRefresh)
	require.Equal(t, 2*time.Second, cfg.Actions.RunRefresh)
	require.Equal(t, time.Second, cfg.Actions.ToggleRefresh)
	require.Equal(t, filepath.Join(home, ".local", "share", "adminctl", "activity.db"), cfg.Audit.Path)
}

func TestLoadReadsFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[api]
base_url = "http://admin.internal:8080"
timeout = "5s"

[ui]
search_debounce = "150ms"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	t.Setenv("ADMINCTL_CONFIG", path)
	t.Setenv("ADMINCTL_EXPORT_DIR", "/srv/exports")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://admin.internal:8080", cfg.API.BaseURL)
	require.Equal(t, 5*time.Second, cfg.API.Timeout)
	require.Equal(t, 150*time.Millisecond, cfg.UI.SearchDebounce)
	require.Equal(t, "/srv/exports", cfg.Export.Dir)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api\nbase_url = "), 0o600))
	t.Setenv("ADMINCTL_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("ADMINCTL_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.API.BaseURL = "https://fiscal.example.com"
	cfg.Actions.RunRefresh = 3 * time.Second
	require.NoError(t, Save(cfg))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://fiscal.example.com", got.API.BaseURL)
	require.Equal(t, 3*time.Second, got.Actions.RunRefresh)
}
