package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName     = "updater"
	configFile  = "config.toml"
	historyFile = "history.db"
)

// ConfigDir returns the platform-specific configuration directory.
func ConfigDir() string {
	return platformDir("XDG_CONFIG_HOME", "APPDATA", ".config")
}

// DataDir returns the platform-specific data directory.
func DataDir() string {
	return platformDir("XDG_DATA_HOME", "LOCALAPPDATA", filepath.Join(".local", "share"))
}

// platformDir resolves an application directory: Application Support on
// macOS, the given %ENV% on Windows, and the XDG variable or a home-relative
// fallback elsewhere.
func platformDir(xdgVar, windowsVar, fallback string) string {
	home, _ := os.UserHomeDir() //nolint:errcheck
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		return filepath.Join(os.Getenv(windowsVar), appName)
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	return filepath.Join(home, fallback, appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), configFile)
}

// HistoryPath returns the full path to the history database.
func HistoryPath() string {
	return filepath.Join(DataDir(), historyFile)
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0755)
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0755)
}
