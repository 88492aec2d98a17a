// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "glyphdrill"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDictionaryPath returns the default dictionary path.
func DefaultDictionaryPath() string {
	return filepath.Join(XDGConfigHome(), appName, "dictionary.toml")
}

// DefaultStatisticsPath returns the default statistics path for a backend.
func DefaultStatisticsPath(backend string) string {
	name := "statistics.yaml"
	switch backend {
	case "sqlite":
		name = "statistics.db"
	case "bolt":
		name = "statistics.bolt"
	}
	return filepath.Join(XDGDataHome(), appName, name)
}

// DefaultLogPath returns the log file used while a TUI owns the terminal.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), appName, appName+".log")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}
