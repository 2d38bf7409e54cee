package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SHOP_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "json", c.Store.Backend)
	require.Equal(t, "duplicate", c.Transfer.Mode)
	require.Equal(t, "classic", c.UI.Theme)
	require.Equal(t, "auto", c.UI.Color)
	require.NotEmpty(t, c.Store.DataDir)
}

func TestLoad_FileAndEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte(`
[store]
backend = "sqlite"
data_dir = "/tmp/shop-data"

[transfer]
mode = "move"
`), 0o644))
	t.Setenv("SHOP_UI_THEME", "neon")

	c, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, "sqlite", c.Store.Backend)
	require.Equal(t, "/tmp/shop-data", c.Store.DataDir)
	require.Equal(t, "move", c.Transfer.Mode)
	require.Equal(t, "neon", c.UI.Theme)
}

func TestLoad_Invalid(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte("[transfer]\nmode = \"teleport\"\n"), 0o644))
	_, err := Load(p)
	require.ErrorContains(t, err, "transfer.mode")

	require.NoError(t, os.WriteFile(p, []byte("not = [toml"), 0o644))
	_, err = Load(p)
	require.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Config{
		Store:    StoreConfig{Backend: "sqlite", DataDir: "/data"},
		Transfer: TransferConfig{Mode: "move"},
		UI:       UIConfig{Theme: "mono", Color: "never"},
	}
	require.NoError(t, Save(p, want))

	got, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
