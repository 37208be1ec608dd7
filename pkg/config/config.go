// Package config resolves the toolkit's developer configuration from TOML
// files and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/clirack/clirack/pkg/cache"
)

// LocalConfigFile is the project-local config filename.
const LocalConfigFile = "clirack.local.toml"

// GlobalConfigFile is the config filename inside the global config
// directory (~/.clirack).
const GlobalConfigFile = "config.toml"

// DevConfig holds developer-specific configuration. It is resolved with
// Viper precedence: CLI flags > clirack.local.toml (project-local) >
// ~/.clirack/config.toml (global) > defaults.
type DevConfig struct {
	// CacheDir is the loader cache root. Defaults to ~/.clirack/cache.
	CacheDir string `toml:"cache_dir" mapstructure:"cache_dir"`
	// NoColor disables ANSI styling on all console output.
	NoColor bool `toml:"no_color" mapstructure:"no_color"`
	// Verbose enables debug-level console output.
	Verbose bool `toml:"verbose" mapstructure:"verbose"`
}

// Flags carries the flag-level overrides. Zero values mean "not set" for
// CacheDir; the booleans only override when true, matching their flag
// defaults.
type Flags struct {
	CacheDir string
	NoColor  bool
	Verbose  bool
}

// Load resolves the developer configuration using Viper's merge
// semantics, looking for the project-local file in the working directory.
func Load(flags Flags) (*DevConfig, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("determining home directory: %w", err)
	}
	globalPath := filepath.Join(home, cache.DefaultRoot, GlobalConfigFile)
	return load(flags, globalPath, LocalConfigFile, filepath.Join(home, cache.DefaultRoot, "cache"))
}

// load is the internal implementation that accepts explicit paths, making
// it testable without touching the real home directory.
func load(flags Flags, globalPath, localPath, defaultCacheDir string) (*DevConfig, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetDefault("cache_dir", defaultCacheDir)

	// Lowest priority: global config; ignore if missing.
	v.SetConfigFile(globalPath)
	_ = v.ReadInConfig()

	// Higher priority: project-local config.
	if _, err := os.Stat(localPath); err == nil {
		v.SetConfigFile(localPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", localPath, err)
		}
	}

	// Highest priority: CLI flags.
	if flags.CacheDir != "" {
		v.Set("cache_dir", flags.CacheDir)
	}
	if flags.NoColor {
		v.Set("no_color", true)
	}
	if flags.Verbose {
		v.Set("verbose", true)
	}

	cfg := &DevConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling dev config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as TOML to path.
func Save(path string, cfg *DevConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// GlobalConfigDir returns the path to ~/.clirack, creating it if
// necessary.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	dir := filepath.Join(home, cache.DefaultRoot)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	return dir, nil
}
