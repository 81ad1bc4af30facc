package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir() returned empty string")
	}
	if filepath.Base(dir) != "updater" {
		t.Errorf("ConfigDir() should end in 'updater': %s", dir)
	}

	switch runtime.GOOS {
	case "darwin":
		if !strings.Contains(dir, "Library/Application Support") {
			t.Errorf("macOS ConfigDir() should be in Library/Application Support: %s", dir)
		}
	case "windows":
	default:
		if !strings.Contains(dir, ".config") && os.Getenv("XDG_CONFIG_HOME") == "" {
			t.Errorf("Linux ConfigDir() should be in .config: %s", dir)
		}
	}
}

func TestPaths(t *testing.T) {
	if !strings.HasSuffix(ConfigPath(), "config.toml") {
		t.Errorf("ConfigPath() should end with 'config.toml': %s", ConfigPath())
	}
	if !strings.HasSuffix(HistoryPath(), "history.db") {
		t.Errorf("HistoryPath() should end with 'history.db': %s", HistoryPath())
	}
	if filepath.Dir(HistoryPath()) != DataDir() {
		t.Errorf("HistoryPath() should live in DataDir(): %s", HistoryPath())
	}
}

func TestEnsureDirs(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))

	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir() error: %v", err)
	}
	if err := EnsureDataDir(); err != nil {
		t.Fatalf("EnsureDataDir() error: %v", err)
	}

	for _, dir := range []string{ConfigDir(), DataDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("directory not created: %v", err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestXDGOverride(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG not used on this platform")
	}

	tmpDir := t.TempDir()
	customConfig := filepath.Join(tmpDir, "custom_config")
	customData := filepath.Join(tmpDir, "custom_data")
	t.Setenv("XDG_CONFIG_HOME", customConfig)
	t.Setenv("XDG_DATA_HOME", customData)

	if got := ConfigDir(); got != filepath.Join(customConfig, "updater") {
		t.Errorf("ConfigDir should use XDG_CONFIG_HOME: %s", got)
	}
	if got := DataDir(); got != filepath.Join(customData, "updater") {
		t.Errorf("DataDir should use XDG_DATA_HOME: %s", got)
	}
}
