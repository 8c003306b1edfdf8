package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config carries all runtime settings. Values come from an optional app.env
// file in the given directory, overridden by environment variables.
type Config struct {
	DBSource      string `mapstructure:"DB_SOURCE"`
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`

	CodePointPath string `mapstructure:"CODEPOINT_PATH"`
	RoadsPath     string `mapstructure:"ROADS_PATH"`
	CoveragePath  string `mapstructure:"COVERAGE_PATH"`

	What3WordsAPIKey string  `mapstructure:"WHAT3WORDS_API_KEY"`
	What3WordsRPS    float64 `mapstructure:"WHAT3WORDS_RPS"`

	// Proximity thresholds in meters. The defaults match the deployed
	// reference behavior but are deliberately configurable.
	RoadDistanceMeters     float64 `mapstructure:"ROAD_DISTANCE_METERS"`
	PostcodeDistanceMeters float64 `mapstructure:"POSTCODE_DISTANCE_METERS"`

	EnrichWorkers int `mapstructure:"ENRICH_WORKERS"`

	// Optional device-specific GPX waypoint symbols.
	APGPXSymbol string `mapstructure:"AP_GPX_SYMBOL"`
	RVGPXSymbol string `mapstructure:"RV_GPX_SYMBOL"`
}

// LoadConfig reads configuration from path/app.env if present and from the
// environment.
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("DB_SOURCE", "")
	viper.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("CODEPOINT_PATH", "")
	viper.SetDefault("ROADS_PATH", "")
	viper.SetDefault("COVERAGE_PATH", "")
	viper.SetDefault("WHAT3WORDS_API_KEY", "")
	viper.SetDefault("WHAT3WORDS_RPS", 6.0)
	viper.SetDefault("ROAD_DISTANCE_METERS", 50.0)
	viper.SetDefault("POSTCODE_DISTANCE_METERS", 300.0)
	viper.SetDefault("ENRICH_WORKERS", 8)
	viper.SetDefault("AP_GPX_SYMBOL", "")
	viper.SetDefault("RV_GPX_SYMBOL", "")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to unmarshal config: %w", err)
	}
	return cfg, nil
}
