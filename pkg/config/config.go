// Package config loads client configuration from a .mangrove file or the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config carries everything the report client needs to run.
type Config struct {
	// StorePath is the base directory for locally persisted drafts.
	StorePath string `json:"store_path"`

	// ServerURL is the base URL of the MangroveWatch server the form posts to.
	ServerURL string `json:"server_url"`

	// LocatorURL is an optional position endpoint (gpsd-style JSON). Empty
	// means no location capability on this host.
	LocatorURL string `json:"locator_url"`

	// Latitude/Longitude pin a static position when no locator is reachable.
	// Only honored when StaticPosition is true.
	StaticPosition bool    `json:"static_position"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`

	// LogPath overrides where the client writes its log file.
	LogPath string `json:"log_path"`
}

// Load reads configuration from a .mangrove file (yaml implicit), walking the
// usual viper search paths, with MANGROVE_* environment overrides.
func Load() (*Config, error) {
	viper.SetDefault("path", "~/.mangrove/drafts")
	viper.SetDefault("server", "http://localhost:5000")
	viper.SetConfigName(".mangrove") // .yaml is implicit
	viper.SetEnvPrefix("MANGROVE")
	viper.AutomaticEnv()

	if override := os.Getenv("MANGROVE_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	storePath, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("config: expand store path: %w", err)
	}

	cfg := &Config{
		StorePath:      storePath,
		ServerURL:      viper.GetString("server"),
		LocatorURL:     viper.GetString("locator"),
		StaticPosition: viper.IsSet("latitude") && viper.IsSet("longitude"),
		Latitude:       viper.GetFloat64("latitude"),
		Longitude:      viper.GetFloat64("longitude"),
		LogPath:        viper.GetString("log"),
	}
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(filepath.Dir(storePath), "mangrove.log")
	}
	return cfg, nil
}
