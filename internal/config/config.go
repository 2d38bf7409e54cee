package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Store    StoreConfig
	Transfer TransferConfig
	UI       UIConfig
	Log      LogConfig
}

// StoreConfig selects the autosave backend.
type StoreConfig struct {
	Backend string // "json" or "sqlite"
	DataDir string `mapstructure:"data_dir"`
}

// TransferConfig sets what a drop does to the source list.
type TransferConfig struct {
	Mode string // "duplicate" or "move"
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme string // classic, neon, mono
	Color string // auto, always, never
}

// LogConfig says where diagnostics go. Empty File means stderr for the CLI
// and no log at all for the TUI.
type LogConfig struct {
	File string
}

const envPrefix = "SHOP"

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "shop")
	}
	return filepath.Join(os.Getenv("HOME"), ".shop")
}

// Load reads configuration from file and env. Env var overrides use prefix SHOP_.
// path, if non-empty, wins over SHOP_CONFIG and the default location.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("store.backend", "json")
	v.SetDefault("store.data_dir", defaultDataDir())
	v.SetDefault("transfer.mode", "duplicate")
	v.SetDefault("ui.theme", "classic")
	v.SetDefault("ui.color", "auto")
	v.SetDefault("log.file", "")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "shop"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine; a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the rest of the program cannot act on.
func (c Config) Validate() error {
	switch strings.ToLower(c.Store.Backend) {
	case "json", "sqlite":
	default:
		return fmt.Errorf("config: store.backend %q: want json or sqlite", c.Store.Backend)
	}
	switch strings.ToLower(c.Transfer.Mode) {
	case "duplicate", "move":
	default:
		return fmt.Errorf("config: transfer.mode %q: want duplicate or move", c.Transfer.Mode)
	}
	switch strings.ToLower(c.UI.Color) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config: ui.color %q: want auto, always or never", c.UI.Color)
	}
	if strings.TrimSpace(c.Store.DataDir) == "" {
		return fmt.Errorf("config: store.data_dir is empty")
	}
	return nil
}

// Save writes cfg as TOML to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("store.backend", cfg.Store.Backend)
	v.Set("store.data_dir", cfg.Store.DataDir)
	v.Set("transfer.mode", cfg.Transfer.Mode)
	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.color", cfg.UI.Color)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
