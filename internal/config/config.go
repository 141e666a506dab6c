// This file defines the configuration structure for the application.
package config

import (
	// use Viper for loading the config.yml file.
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port     int `mapstructure:"port"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Library struct {
		// Statuses overrides the accepted watch-status vocabulary.
		Statuses []string `mapstructure:"statuses"`
	} `mapstructure:"library"`
	TMDB struct {
		Token string `mapstructure:"token"`
	} `mapstructure:"tmdb"`
	Assistant struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"assistant"`
	Chat struct {
		SessionTTLMinutes int `mapstructure:"session_ttl_minutes"`
		SweepMinutes      int `mapstructure:"sweep_minutes"`
	} `mapstructure:"chat"`
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or "yaml"
	viper.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// This tells Viper to look for environment variables with a "WATCHARR_"
	// prefix. e.g., WATCHARR_DATABASE_PATH overrides the `database.path` key.
	viper.SetEnvPrefix("WATCHARR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("port", 3001)
	viper.SetDefault("database.path", "./watcharr.db")
	viper.SetDefault("library.statuses", []string{})
	viper.SetDefault("tmdb.token", "")
	viper.SetDefault("assistant.api_key", "")
	viper.SetDefault("assistant.model", "claude-sonnet-4-5")
	viper.SetDefault("chat.session_ttl_minutes", 30)
	viper.SetDefault("chat.sweep_minutes", 5)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Statuses returns the configured watch-status vocabulary, falling back to
// the defaults when none is configured.
func (c *Config) Statuses() []string {
	if len(c.Library.Statuses) > 0 {
		return c.Library.Statuses
	}
	return []string{"watched", "watching", "plan_to_watch", "dropped"}
}
