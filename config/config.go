package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yml"

// OAuthConfig holds the Google OAuth client credentials used for the
// delegated-authorization flow. These identify the application, not the user;
// the user's token lives in the system keyring.
type OAuthConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

type Config struct {
	OAuth OAuthConfig `yaml:"oauth"`

	// CalendarID is the target calendar for created events.
	CalendarID string `yaml:"calendar_id"`

	// DefaultDurationMin is the default event length applied when the end
	// time has not been edited.
	DefaultDurationMin int `yaml:"default_duration_min"`

	// DesktopNotifications enables a system notification after an event is
	// created, in addition to the in-popup message.
	DesktopNotifications bool `yaml:"desktop_notifications"`

	LogLevel string `yaml:"log_level,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		CalendarID:           "primary",
		DefaultDurationMin:   60,
		DesktopNotifications: true,
		LogLevel:             "info",
	}
}

func Load() (Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return DefaultConfig(), err
	}

	configPath := filepath.Join(configDir, configFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}

	// Apply defaults for zero values
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	if cfg.DefaultDurationMin == 0 {
		cfg.DefaultDurationMin = 60
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

func (c Config) Save() error {
	configDir, err := getConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	configPath := filepath.Join(configDir, configFileName)
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// Delete removes the configuration directory and everything in it. Used by
// the uninstall hook.
func Delete() error {
	configDir, err := getConfigDir()
	if err != nil {
		return err
	}
	return os.RemoveAll(configDir)
}

// LogFilePath returns the log destination inside the config directory. The
// TUI owns stdout, so logs cannot go there.
func LogFilePath() (string, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "tabcal.log"), nil
}

func getConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tabcal"), nil
}

func GetConfigDir() (string, error) {
	return getConfigDir()
}
