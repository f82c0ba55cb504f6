package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API     APIConfig
	UI      UIConfig
	Actions ActionsConfig
	Export  ExportConfig
	Audit   AuditConfig
	Log     LogConfig
}

// APIConfig points at the scheduler/ETL backend.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout time.Duration
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Timezone       string
	ToastDuration  time.Duration `mapstructure:"toast_duration"`
	ToastExit      time.Duration `mapstructure:"toast_exit"`
	SearchDebounce time.Duration `mapstructure:"search_debounce"`
}

// ActionsConfig holds the delay before views are refetched after a successful action.
type ActionsConfig struct {
	DeleteRefresh time.Duration `mapstructure:"delete_refresh"`
	RunRefresh    time.Duration `mapstructure:"run_refresh"`
	ToggleRefresh time.Duration `mapstructure:"toggle_refresh"`
}

// ExportConfig holds the CSV download directory.
type ExportConfig struct {
	Dir string
}

// AuditConfig holds the sqlite activity log settings.
type AuditConfig struct {
	Path string
}

// LogConfig controls the slog file sink.
type LogConfig struct {
	Path  string
	Level string
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "adminctl")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:5000")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("ui.timezone", "America/Sao_Paulo")
	v.SetDefault("ui.toast_duration", "5s")
	v.SetDefault("ui.toast_exit", "300ms")
	v.SetDefault("ui.search_debounce", "300ms")
	v.SetDefault("actions.delete_refresh", "1s")
	v.SetDefault("actions.run_refresh", "2s")
	v.SetDefault("actions.toggle_refresh", "1s")
	v.SetDefault("export.dir", filepath.Join(os.Getenv("HOME"), "Downloads"))
	v.SetDefault("audit.path", filepath.Join(dataDir(), "activity.db"))
	v.SetDefault("log.path", filepath.Join(dataDir(), "adminctl.log"))
	v.SetDefault("log.level", "info")
}

// Load reads configuration from file and env. Env var overrides use prefix ADMINCTL_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ADMINCTL_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "adminctl"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ADMINCTL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// a missing file is fine, a broken one is not
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("ADMINCTL_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "adminctl", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.toast_duration", cfg.UI.ToastDuration.String())
	v.Set("ui.toast_exit", cfg.UI.ToastExit.String())
	v.Set("ui.search_debounce", cfg.UI.SearchDebounce.String())
	v.Set("actions.delete_refresh", cfg.Actions.DeleteRefresh.String())
	v.Set("actions.run_refresh", cfg.Actions.RunRefresh.String())
	v.Set("actions.toggle_refresh", cfg.Actions.ToggleRefresh.String())
	v.Set("export.dir", cfg.Export.Dir)
	v.Set("audit.path", cfg.Audit.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
