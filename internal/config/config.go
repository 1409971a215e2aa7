// Package config provides configuration management for the trading journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Journal  JournalConfig  `mapstructure:"journal"`
	Accounts []AccountInfo  `mapstructure:"accounts"`
	UI       UIConfig       `mapstructure:"ui"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// JournalConfig holds journal-wide configuration.
type JournalConfig struct {
	DefaultAccount string  `mapstructure:"default_account"`
	DefaultRisk    float64 `mapstructure:"default_risk"`    // default 1R loss fallback
	WeekStartsOn   string  `mapstructure:"week_starts_on"`  // informational, grids are Monday-based
	Timezone       string  `mapstructure:"timezone"`        // IANA name, empty = local
	Currency       string  `mapstructure:"currency"`        // display symbol
}

// AccountInfo describes a trading account tracked by the journal.
type AccountInfo struct {
	ID     string `mapstructure:"id"`
	Name   string `mapstructure:"name"`
	Broker string `mapstructure:"broker"`
	Active bool   `mapstructure:"active"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradebook"
	}
	return filepath.Join(home, ".config", "tradebook")
}

// DefaultDatabasePath returns the default SQLite database path.
func DefaultDatabasePath() string {
	return filepath.Join(DefaultConfigDir(), "tradebook.db")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template
			return createTemplateConfig(configDir, name)
		}
		return err
	}

	return v.Unmarshal(target)
}

func applyDefaults(cfg *Config) {
	if cfg.Journal.DefaultRisk == 0 {
		cfg.Journal.DefaultRisk = 1.0
	}
	if cfg.Journal.Currency == "" {
		cfg.Journal.Currency = "$"
	}
	if cfg.UI.DateFormat == "" {
		cfg.UI.DateFormat = "02-Jan-2006"
	}
	if cfg.UI.TimeFormat == "" {
		cfg.UI.TimeFormat = "15:04:05"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath()
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRADEBOOK_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("TRADEBOOK_ACCOUNT"); v != "" {
		cfg.Journal.DefaultAccount = v
	}
	if v := os.Getenv("TRADEBOOK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TRADEBOOK_TZ"); v != "" {
		cfg.Journal.Timezone = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Journal.DefaultRisk < 0 {
		return fmt.Errorf("default_risk must be non-negative")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	seen := make(map[string]bool, len(c.Accounts))
	for _, a := range c.Accounts {
		if a.ID == "" {
			return fmt.Errorf("account with empty id")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate account id: %s", a.ID)
		}
		seen[a.ID] = true
	}

	if c.Journal.DefaultAccount != "" && len(c.Accounts) > 0 && !seen[c.Journal.DefaultAccount] {
		return fmt.Errorf("default_account %q is not a configured account", c.Journal.DefaultAccount)
	}

	return nil
}

// ActiveAccountIDs returns the IDs of all active accounts. When no accounts
// are configured every trade's account is considered active.
func (c *Config) ActiveAccountIDs() []string {
	ids := make([]string, 0, len(c.Accounts))
	for _, a := range c.Accounts {
		if a.Active {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// AccountByID looks up a configured account.
func (c *Config) AccountByID(id string) (AccountInfo, bool) {
	for _, a := range c.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return AccountInfo{}, false
}
