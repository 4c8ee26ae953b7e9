package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ProviderConfig holds settings for the remote mailbox provider.
type ProviderConfig struct {
	// BaseURL is the root URL of the provider's REST API.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec is the per-request HTTP timeout in seconds.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// PollConfig holds inbox polling settings.
type PollConfig struct {
	// IntervalSec is how often (in seconds) the inbox is refetched while
	// a session is active. The visible countdown runs over the same span.
	IntervalSec int `mapstructure:"interval_sec" yaml:"interval_sec"`
}

// AdminConfig holds settings for the admin directory view.
type AdminConfig struct {
	// GateSecret is the passphrase for the admin directory. It is a
	// convenience gate checked locally, not an access-control boundary;
	// anyone with the config file or environment can read it. An empty
	// value disables the admin view entirely.
	GateSecret string `mapstructure:"gate_secret" yaml:"gate_secret"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Provider ProviderConfig `mapstructure:"provider" yaml:"provider"`
	Poll     PollConfig     `mapstructure:"poll" yaml:"poll"`
	Admin    AdminConfig    `mapstructure:"admin" yaml:"admin"`

	// DirectoryPath is the SQLite file holding the account directory.
	DirectoryPath string `mapstructure:"directory_path" yaml:"directory_path"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/tempbox/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "tempbox", "config.yaml")
}

// DefaultDirectoryPath returns the default SQLite path for the account
// directory, next to the config file.
func DefaultDirectoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "directory.db")
	}
	return filepath.Join(home, ".config", "tempbox", "directory.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Provider: ProviderConfig{
			BaseURL:    "https://api.mail.tm",
			TimeoutSec: 30,
		},
		Poll: PollConfig{
			IntervalSec: 15,
		},
		DirectoryPath: DefaultDirectoryPath(),
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed TEMPBOX_ override file values
// (e.g. TEMPBOX_ADMIN_GATE_SECRET). A missing file yields the defaults.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("provider.base_url", "https://api.mail.tm")
	v.SetDefault("provider.timeout_sec", 30)
	v.SetDefault("poll.interval_sec", 15)
	v.SetDefault("admin.gate_secret", "")
	v.SetDefault("directory_path", DefaultDirectoryPath())

	v.SetEnvPrefix("tempbox")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
		// Missing file: fall through to defaults + env overrides.
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Poll.IntervalSec <= 0 {
		cfg.Poll.IntervalSec = 15
	}
	if cfg.Provider.TimeoutSec <= 0 {
		cfg.Provider.TimeoutSec = 30
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

	v.Set("provider", cfg.Provider)
	v.Set("poll", cfg.Poll)
	v.Set("admin", cfg.Admin)
	v.Set("directory_path", cfg.DirectoryPath)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
