// Package config loads and saves updater settings.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Defaults shared with the composer package.
const (
	DefaultProductPackage = "magento/product-community-edition"
	DefaultComposerHome   = "var/composer_home"
	DefaultComposerBinary = "composer"
	manifestFile          = "composer.json"
)

// Version list sources.
const (
	VersionFormatText = "text"
	VersionFormatJSON = "json"
)

// Config represents the complete updater configuration.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Composer ComposerConfig `toml:"composer"`
	Output   OutputConfig   `toml:"output"`
}

// GeneralConfig contains general settings.
type GeneralConfig struct {
	// ManifestDir is the directory holding composer.json.
	ManifestDir string `toml:"manifest_dir"`

	// ProductPackage is the package whose versions are checked.
	ProductPackage string `toml:"product_package"`

	// AutoConfirm skips confirmation prompts when true (like -y flag).
	AutoConfirm bool `toml:"auto_confirm"`

	// DryRun prints composer commands without running them or touching the manifest.
	DryRun bool `toml:"dry_run"`

	// History records every directive and update run.
	History bool `toml:"history"`
}

// ComposerConfig describes how composer is invoked.
type ComposerConfig struct {
	// Binary is the executable to run, e.g. "composer" or "php".
	Binary string `toml:"binary"`

	// Script is passed as the first argument to Binary, e.g. a composer.phar path.
	Script string `toml:"php_script"`

	// HomeDir is COMPOSER_HOME, relative to ManifestDir unless absolute.
	HomeDir string `toml:"home_dir"`

	// VersionFormat selects how version lists are read: "text" or "json".
	VersionFormat string `toml:"version_format"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	// Color enables colored output (respects NO_COLOR env var).
	Color bool `toml:"color"`

	// Unicode enables unicode symbols in output.
	Unicode bool `toml:"unicode"`

	// Verbose enables debug logging.
	Verbose bool `toml:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			ManifestDir:    ".",
			ProductPackage: DefaultProductPackage,
			History:        true,
		},
		Composer: ComposerConfig{
			Binary:        DefaultComposerBinary,
			HomeDir:       DefaultComposerHome,
			VersionFormat: VersionFormatText,
		},
		Output: OutputConfig{
			Color:   true,
			Unicode: true,
		},
	}
}

// Load loads the configuration from the default path.
// If the config file doesn't exist, it returns the default configuration.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the configuration from a specific path.
// If the config file doesn't exist, it returns the default configuration.
// UPDATER_MANIFEST_DIR overrides the manifest directory in either case.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if dir := os.Getenv("UPDATER_MANIFEST_DIR"); dir != "" {
		cfg.General.ManifestDir = dir
	}

	return cfg, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// ManifestPath returns the full path to composer.json.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.General.ManifestDir, manifestFile)
}

// ComposerHome returns COMPOSER_HOME resolved against the manifest directory.
func (c *Config) ComposerHome() string {
	home := c.Composer.HomeDir
	if home == "" {
		home = DefaultComposerHome
	}
	if filepath.IsAbs(home) {
		return home
	}
	return filepath.Join(c.General.ManifestDir, home)
}

// ShouldUseColor returns true if colored output should be used.
// Respects the NO_COLOR environment variable.
func (c *Config) ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return c.Output.Color
}
