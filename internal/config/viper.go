// Viper-based application configuration: ledger connection settings and
// logging preferences, with environment variables taking precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// AppConfig represents the application-level configuration. The per-CSV
// import policy lives in Profile, not here.
type AppConfig struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Firefly struct {
		BaseURL     string `mapstructure:"base_url" yaml:"base_url"`
		AccessToken string `mapstructure:"access_token" yaml:"-"` // Never serialize the token
	} `mapstructure:"firefly" yaml:"firefly"`
}

// InitializeConfig loads the application configuration with hierarchical
// precedence: defaults, then an optional config file, then environment
// variables.
func InitializeConfig() (*AppConfig, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.csv-firefly")
	v.AddConfigPath(".csv-firefly")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CSVFF")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file not found is fine; an unreadable one is worth a warning
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// The ledger settings keep their historical, unprefixed variable names
	if err := v.BindEnv("firefly.base_url", "FIREFLY_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind FIREFLY_URL: %w", err)
	}
	if err := v.BindEnv("firefly.access_token", "ACCESS_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind ACCESS_TOKEN: %w", err)
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateAppConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("firefly.base_url", "")
	v.SetDefault("firefly.access_token", "")
}

func validateAppConfig(cfg *AppConfig) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}

	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Log.Format)
	}

	return nil
}

// ValidateFireflyConfig checks that the ledger connection settings are
// present. Their absence is a fatal configuration error before any import
// logic runs.
func ValidateFireflyConfig(cfg *AppConfig) error {
	if cfg.Firefly.BaseURL == "" {
		return fmt.Errorf("FIREFLY_URL is not set")
	}
	if cfg.Firefly.AccessToken == "" {
		return fmt.Errorf("ACCESS_TOKEN is not set")
	}
	return nil
}
