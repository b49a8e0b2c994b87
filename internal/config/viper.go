// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Data struct {
		SettingsFile string `mapstructure:"settings_file" yaml:"settings_file"`
		ServicesFile string `mapstructure:"services_file" yaml:"services_file"`
	} `mapstructure:"data" yaml:"data"`

	Fuzzy struct {
		LevenshteinWeight float64 `mapstructure:"levenshtein_weight" yaml:"levenshtein_weight"`
		JaccardWeight     float64 `mapstructure:"jaccard_weight" yaml:"jaccard_weight"`
	} `mapstructure:"fuzzy" yaml:"fuzzy"`

	Subscriptions struct {
		MinimumOccurrences int     `mapstructure:"minimum_occurrences" yaml:"minimum_occurrences"`
		MaxAmountCV        float64 `mapstructure:"max_amount_cv" yaml:"max_amount_cv"`
		MinConfidence      float64 `mapstructure:"min_confidence" yaml:"min_confidence"`
		RenewalWindowDays  int     `mapstructure:"renewal_window_days" yaml:"renewal_window_days"`
	} `mapstructure:"subscriptions" yaml:"subscriptions"`

	Suggestions struct {
		MinConfidence float64 `mapstructure:"min_confidence" yaml:"min_confidence"`
		MaxResults    int     `mapstructure:"max_results" yaml:"max_results"`
	} `mapstructure:"suggestions" yaml:"suggestions"`

	AI struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Model   string `mapstructure:"model" yaml:"model"`
		APIKey  string `mapstructure:"api_key" yaml:"-"` // Never serialize the API key
	} `mapstructure:"ai" yaml:"ai"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then SPENDLENS_* environment variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.spendlens")
	v.AddConfigPath(".spendlens")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SPENDLENS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars; a broken config file
			// should not block the CLI.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// API key always comes from the environment, unprefixed.
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("data.settings_file", "settings.json")
	v.SetDefault("data.services_file", "services.yaml")

	v.SetDefault("fuzzy.levenshtein_weight", 0.5)
	v.SetDefault("fuzzy.jaccard_weight", 0.5)

	v.SetDefault("subscriptions.minimum_occurrences", 3)
	v.SetDefault("subscriptions.max_amount_cv", 0.3)
	v.SetDefault("subscriptions.min_confidence", 0.5)
	v.SetDefault("subscriptions.renewal_window_days", 30)

	v.SetDefault("suggestions.min_confidence", 0.3)
	v.SetDefault("suggestions.max_results", 3)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Fuzzy.LevenshteinWeight < 0 || config.Fuzzy.JaccardWeight < 0 {
		return fmt.Errorf("fuzzy weights must be non-negative")
	}

	if config.Subscriptions.MinimumOccurrences < 2 {
		return fmt.Errorf("subscriptions.minimum_occurrences must be at least 2, got: %d",
			config.Subscriptions.MinimumOccurrences)
	}
	if config.Subscriptions.MaxAmountCV <= 0 || config.Subscriptions.MaxAmountCV > 1 {
		return fmt.Errorf("subscriptions.max_amount_cv must be in (0, 1], got: %f",
			config.Subscriptions.MaxAmountCV)
	}
	if config.Subscriptions.MinConfidence < 0 || config.Subscriptions.MinConfidence > 1 {
		return fmt.Errorf("subscriptions.min_confidence must be between 0.0 and 1.0, got: %f",
			config.Subscriptions.MinConfidence)
	}

	if config.Suggestions.MinConfidence < 0 || config.Suggestions.MinConfidence > 1 {
		return fmt.Errorf("suggestions.min_confidence must be between 0.0 and 1.0, got: %f",
			config.Suggestions.MinConfidence)
	}
	if config.Suggestions.MaxResults < 1 {
		return fmt.Errorf("suggestions.max_results must be at least 1, got: %d",
			config.Suggestions.MaxResults)
	}

	if config.AI.Enabled && config.AI.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
	}

	return nil
}

// ConfigureLoggingFromConfig builds a logrus logger from the Log section.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
