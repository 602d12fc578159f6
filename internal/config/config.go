// This file defines the configuration structure for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port int `mapstructure:"port"`

	// DataDir is the root of the private cache tree and the store file.
	DataDir string `mapstructure:"data_dir"`
	// OutputDir is only the initial default for the library mirror; the
	// live value is user-mutable and lives in the store.
	OutputDir string `mapstructure:"output_dir"`

	// UpdateIntervalHours is how often the scheduled update+sync pass runs.
	UpdateIntervalHours int `mapstructure:"update_interval_hours"`
	// RecheckDelayHours is how long after a successful update an item is
	// considered not due. RecheckJitterMinutes is a fixed margin added so the
	// due check does not oscillate against the scheduler interval boundary.
	RecheckDelayHours    int `mapstructure:"recheck_delay_hours"`
	RecheckJitterMinutes int `mapstructure:"recheck_jitter_minutes"`

	// Randomized delay between remote fetches, in milliseconds.
	FetchDelayMinMs int `mapstructure:"fetch_delay_min_ms"`
	FetchDelayMaxMs int `mapstructure:"fetch_delay_max_ms"`

	ClipboardWatch  bool `mapstructure:"clipboard_watch"`
	ClipboardPollMs int  `mapstructure:"clipboard_poll_ms"`
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")

	// Environment variable overrides, e.g. NOVELKEEP_DATA_DIR.
	viper.SetEnvPrefix("NOVELKEEP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	viper.SetDefault("port", 7939)
	viper.SetDefault("data_dir", filepath.Join(home, ".novelkeep"))
	viper.SetDefault("output_dir", filepath.Join(home, "Novel Library"))
	viper.SetDefault("update_interval_hours", 6)
	viper.SetDefault("recheck_delay_hours", 6)
	viper.SetDefault("recheck_jitter_minutes", 5)
	viper.SetDefault("fetch_delay_min_ms", 1000)
	viper.SetDefault("fetch_delay_max_ms", 2000)
	viper.SetDefault("clipboard_watch", true)
	viper.SetDefault("clipboard_poll_ms", 512)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
		} else {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
