// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Artwork ArtworkConfig `mapstructure:"artwork"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SourceConfig says where the collection comes from.
type SourceConfig struct {
	SheetURL string `mapstructure:"sheet_url"` // Published spreadsheet CSV export
	File     string `mapstructure:"file"`      // Local CSV/JSON path
}

// ArtworkConfig tunes the resolution pipeline.
type ArtworkConfig struct {
	CacheDir  string `mapstructure:"cache_dir"`  // BoltDB location; empty = memory-only
	IndexPath string `mapstructure:"index_path"` // Pre-baked art-index.json

	// SmartFallback enables the network providers (iTunes, Deezer,
	// MusicBrainz). Off, only the baked index and the record's own cover
	// URL are consulted.
	SmartFallback bool `mapstructure:"smart_fallback"`

	// ProxyOnFail adds an image-proxy variant after direct cover URLs to
	// dodge hosts that refuse hotlinking.
	ProxyOnFail bool `mapstructure:"proxy_on_fail"`

	Workers int `mapstructure:"workers"` // Concurrent resolutions
	PaceMS  int `mapstructure:"pace_ms"` // Delay between queue dispatches
}

// UIConfig holds browser surface configuration.
type UIConfig struct {
	LookAhead int `mapstructure:"look_ahead"` // Cards pre-resolved past the viewport
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Artwork: ArtworkConfig{
			CacheDir:      defaultCachePath(),
			IndexPath:     "art-index.json",
			SmartFallback: true,
			ProxyOnFail:   true,
			Workers:       4,
			PaceMS:        60,
		},
		UI: UIConfig{
			LookAhead: 3,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("CRATEDIG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set("source.sheet_url", cfg.Source.SheetURL)
	viper.Set("source.file", cfg.Source.File)

	viper.Set("artwork.cache_dir", cfg.Artwork.CacheDir)
	viper.Set("artwork.index_path", cfg.Artwork.IndexPath)
	viper.Set("artwork.smart_fallback", cfg.Artwork.SmartFallback)
	viper.Set("artwork.proxy_on_fail", cfg.Artwork.ProxyOnFail)
	viper.Set("artwork.workers", cfg.Artwork.Workers)
	viper.Set("artwork.pace_ms", cfg.Artwork.PaceMS)

	viper.Set("ui.look_ahead", cfg.UI.LookAhead)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// HasSource returns true when a collection source is configured.
func (c *Config) HasSource() bool {
	return c.Source.SheetURL != "" || c.Source.File != ""
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "cratedig")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "cratedig")
	}
}

// defaultCachePath returns the default cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "cratedig", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "cratedig", "cache")
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "cratedig", "cratedig.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "cratedig", "cratedig.log")
	}
}
