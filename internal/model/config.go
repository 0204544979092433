package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Storage backend identifiers.
const (
	BackendSQLite  = "sqlite"
	BackendKeyring = "keyring"
)

// StorageConfig selects and configures the raw storage medium.
type StorageConfig struct {
	// Backend is either "sqlite" or "keyring".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Path is the SQLite database file, or the keyring file-backend directory.
	Path string `mapstructure:"path" yaml:"path"`

	// KeyringService is the service name items are stored under.
	KeyringService string `mapstructure:"keyring_service" yaml:"keyring_service"`
}

// Preferences holds user-facing settings that used to live in an ambient
// context. They are loaded once and handed to the components that need them.
type Preferences struct {
	ThemeDark            bool `mapstructure:"theme_dark" yaml:"theme_dark"`
	NotificationsEnabled bool `mapstructure:"notifications_enabled" yaml:"notifications_enabled"`
}

// ReminderConfig controls reminder lifecycle policy.
type ReminderConfig struct {
	// CompleteOnFire marks a reminder completed once its notification fires.
	// When false, fired reminders stay as they are until the user deletes them.
	CompleteOnFire bool `mapstructure:"complete_on_fire" yaml:"complete_on_fire"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage     StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Preferences Preferences    `mapstructure:"preferences" yaml:"preferences"`
	Reminders   ReminderConfig `mapstructure:"reminders" yaml:"reminders"`
	Log         LogConfig      `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/notekeeper/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "notekeeper", "config.yaml")
}

// DefaultDataPath returns the default SQLite database location.
func DefaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "notekeeper.db")
	}
	return filepath.Join(home, ".local", "share", "notekeeper", "notekeeper.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			Backend:        BackendSQLite,
			Path:           DefaultDataPath(),
			KeyringService: "notekeeper",
		},
		Preferences: Preferences{
			ThemeDark:            false,
			NotificationsEnabled: true,
		},
		Reminders: ReminderConfig{
			CompleteOnFire: false,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	def := defaultAppConfig()
	v.SetDefault("storage.backend", def.Storage.Backend)
	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("storage.keyring_service", def.Storage.KeyringService)
	v.SetDefault("preferences.theme_dark", def.Preferences.ThemeDark)
	v.SetDefault("preferences.notifications_enabled", def.Preferences.NotificationsEnabled)
	v.SetDefault("reminders.complete_on_fire", def.Reminders.CompleteOnFire)
	v.SetDefault("log.level", def.Log.Level)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	switch cfg.Storage.Backend {
	case BackendSQLite, BackendKeyring:
	default:
		return nil, fmt.Errorf("parsing config %s: unknown storage backend %q", path, cfg.Storage.Backend)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", map[string]any{
		"backend":         cfg.Storage.Backend,
		"path":            cfg.Storage.Path,
		"keyring_service": cfg.Storage.KeyringService,
	})
	v.Set("preferences", map[string]any{
		"theme_dark":            cfg.Preferences.ThemeDark,
		"notifications_enabled": cfg.Preferences.NotificationsEnabled,
	})
	v.Set("reminders", map[string]any{
		"complete_on_fire": cfg.Reminders.CompleteOnFire,
	})
	v.Set("log", map[string]any{
		"level": cfg.Log.Level,
	})

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
