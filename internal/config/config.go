// Package config loads converter settings from an optional JSON config
// file plus environment variables, with sensible defaults for everything.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the converter settings a config file or environment can
// override. Command-line flags take precedence over all of these.
type Config struct {
	LogLevel string `json:"logLevel" mapstructure:"logLevel"`
	LogsDir  string `json:"logsDir" mapstructure:"logsDir"`

	// Lens is the payload lens list written into capture actions.
	Lens string `json:"lens" mapstructure:"lens"`

	// FocalLength in millimeters for capture actions.
	FocalLength float64 `json:"focalLength" mapstructure:"focalLength"`
}

// Load reads configuration from area2waypoint.cfg.json in configDir and
// sets default values. A missing config file is not an error; defaults
// and environment variables still apply.
func Load(configDir string) (Config, error) {
	v := viper.New()

	v.SetDefault("logLevel", "info")
	v.SetDefault("logsDir", "")
	v.SetDefault("lens", "ir,wide,zoom")
	v.SetDefault("focalLength", 48.0)

	v.SetConfigName("area2waypoint.cfg.json")
	v.SetConfigType("json")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("AREA2WAYPOINT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return cfg, nil
}
