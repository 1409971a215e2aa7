package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Tradebook Configuration

[journal]
# Account used when none is specified on the command line
default_account = ""
# Risk assumed per trade when no loss ratio is recorded (in R)
default_risk = 1.0
# Calendar grids always start on Monday
week_starts_on = "monday"
# IANA timezone for day bucketing, empty = system local
timezone = ""
# Currency symbol for display
currency = "$"

# Tracked trading accounts
# [[accounts]]
# id = "main"
# name = "Main Account"
# broker = ""
# active = true

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
# Time format
time_format = "15:04:05"

[database]
# SQLite database path, empty = ~/.config/tradebook/tradebook.db
path = ""

[logging]
# Log level: debug, info, warn, error
level = "info"
console = true
file = true
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, created template at %s", path)
}
