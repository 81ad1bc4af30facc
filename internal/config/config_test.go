package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.General.ManifestDir != "." {
		t.Errorf("expected manifest dir '.', got %q", cfg.General.ManifestDir)
	}
	if cfg.General.ProductPackage != DefaultProductPackage {
		t.Errorf("expected product package %q, got %q", DefaultProductPackage, cfg.General.ProductPackage)
	}
	if !cfg.General.History {
		t.Error("expected History to be true by default")
	}
	if cfg.General.AutoConfirm || cfg.General.DryRun {
		t.Error("expected AutoConfirm and DryRun to be false by default")
	}

	if cfg.Composer.Binary != "composer" {
		t.Errorf("expected binary 'composer', got %q", cfg.Composer.Binary)
	}
	if cfg.Composer.HomeDir != "var/composer_home" {
		t.Errorf("expected home dir 'var/composer_home', got %q", cfg.Composer.HomeDir)
	}
	if cfg.Composer.VersionFormat != VersionFormatText {
		t.Errorf("expected version format 'text', got %q", cfg.Composer.VersionFormat)
	}

	if !cfg.Output.Color || !cfg.Output.Unicode || cfg.Output.Verbose {
		t.Errorf("unexpected output defaults: %+v", cfg.Output)
	}
}

func TestManifestPath(t *testing.T) {
	cfg := Default()
	cfg.General.ManifestDir = "/var/www/shop"

	if got := cfg.ManifestPath(); got != "/var/www/shop/composer.json" {
		t.Errorf("ManifestPath() = %s", got)
	}
}

func TestComposerHome(t *testing.T) {
	tests := []struct {
		name     string
		homeDir  string
		expected string
	}{
		{"relative", "var/composer_home", "/var/www/shop/var/composer_home"},
		{"absolute", "/opt/composer", "/opt/composer"},
		{"empty falls back", "", "/var/www/shop/var/composer_home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.General.ManifestDir = "/var/www/shop"
			cfg.Composer.HomeDir = tt.homeDir

			if got := cfg.ComposerHome(); got != tt.expected {
				t.Errorf("ComposerHome() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestShouldUseColor(t *testing.T) {
	cfg := &Config{
		Output: OutputConfig{Color: true},
	}

	t.Setenv("NO_COLOR", "")
	if !cfg.ShouldUseColor() {
		t.Error("expected ShouldUseColor() to return true")
	}

	t.Setenv("NO_COLOR", "1")
	if cfg.ShouldUseColor() {
		t.Error("expected ShouldUseColor() to return false when NO_COLOR is set")
	}

	t.Setenv("NO_COLOR", "")
	cfg.Output.Color = false
	if cfg.ShouldUseColor() {
		t.Error("expected ShouldUseColor() to return false when Color is false")
	}
}

func TestLoadSaveConfig(t *testing.T) {
	t.Setenv("UPDATER_MANIFEST_DIR", "")
	configPath := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.General.ManifestDir = "/srv/shop"
	cfg.Composer.Binary = "php"
	cfg.Composer.Script = "/srv/shop/vendor/bin/composer"
	cfg.Composer.VersionFormat = VersionFormatJSON

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if loaded.General.ManifestDir != "/srv/shop" {
		t.Errorf("ManifestDir = %q", loaded.General.ManifestDir)
	}
	if loaded.Composer != cfg.Composer {
		t.Errorf("Composer = %+v, want %+v", loaded.Composer, cfg.Composer)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	t.Setenv("UPDATER_MANIFEST_DIR", "")
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := "[composer]\nbinary = \"/usr/local/bin/composer\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.Composer.Binary != "/usr/local/bin/composer" {
		t.Errorf("Binary = %q", cfg.Composer.Binary)
	}
	if cfg.Composer.HomeDir != DefaultComposerHome {
		t.Errorf("unset keys should keep defaults, HomeDir = %q", cfg.Composer.HomeDir)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[general\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("LoadFrom() should fail on malformed TOML")
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	t.Setenv("UPDATER_MANIFEST_DIR", "")

	cfg, err := LoadFrom("/non/existent/path/config.toml")
	if err != nil {
		t.Fatalf("LoadFrom() should not error for non-existent file: %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadFrom() should return default config for non-existent file")
	}
	if cfg.General.ManifestDir != "." {
		t.Errorf("expected default manifest dir, got %q", cfg.General.ManifestDir)
	}
}

func TestManifestDirEnvOverride(t *testing.T) {
	t.Setenv("UPDATER_MANIFEST_DIR", "/from/env")

	cfg, err := LoadFrom("/non/existent/path/config.toml")
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.General.ManifestDir != "/from/env" {
		t.Errorf("ManifestDir = %q, want /from/env", cfg.General.ManifestDir)
	}
}
