// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"

	"github.com/verte-zerg/tapdrill/internal/model"
)

const appName = "tapdrill"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	return xdgHome("XDG_CONFIG_HOME", ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	return xdgHome("XDG_DATA_HOME", ".local", "share")
}

// XDGStateHome returns the XDG state home or a default fallback.
func XDGStateHome() string {
	return xdgHome("XDG_STATE_HOME", ".local", "state")
}

func xdgHome(env string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// DefaultHistoryPath returns the default history location for a storage backend.
func DefaultHistoryPath(storage string) string {
	if storage == model.StorageSQLite {
		return filepath.Join(XDGDataHome(), appName, appName+".db")
	}
	return filepath.Join(XDGDataHome(), appName, "progress.json")
}

// DefaultThemePath returns the path of the persisted theme preference.
func DefaultThemePath() string {
	return filepath.Join(XDGConfigHome(), appName, "theme.json")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(XDGStateHome(), appName, appName+".log")
}
