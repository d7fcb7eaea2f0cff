// Package config loads handlerfix configuration from .handlerfix/config.json.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete handlerfix configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	// Extension is the file extension filter for candidate source files
	Extension string `json:"extension" mapstructure:"extension"`

	// Recursive controls whether the target directory is walked recursively
	Recursive bool `json:"recursive" mapstructure:"recursive"`

	// Exclude holds glob patterns for paths to skip
	Exclude []string `json:"exclude" mapstructure:"exclude"`

	// ClientType is the declared type of the fixed first handler parameter
	ClientType string `json:"clientType" mapstructure:"clientType"`

	// MethodPrefix is the identifier prefix handler methods share
	MethodPrefix string `json:"methodPrefix" mapstructure:"methodPrefix"`

	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:   1,
		Extension: ".ts",
		Recursive: false,
		Exclude: []string{
			"*.d.ts",
			"*.test.ts",
		},
		ClientType:   "WordPressClient",
		MethodPrefix: "handle",
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from <workDir>/.handlerfix/config.json
func LoadConfig(workDir string) (*Config, error) {
	v := viper.New()

	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("extension", defaults.Extension)
	v.SetDefault("recursive", defaults.Recursive)
	v.SetDefault("exclude", defaults.Exclude)
	v.SetDefault("clientType", defaults.ClientType)
	v.SetDefault("methodPrefix", defaults.MethodPrefix)
	v.SetDefault("logging.level", defaults.Logging.Level)

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(workDir, ".handlerfix"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// If config doesn't exist, return default config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to <workDir>/.handlerfix/config.json
func (c *Config) Save(workDir string) error {
	configDir := filepath.Join(workDir, ".handlerfix")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	// Marshal to JSON with indentation
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	// Write to file
	return os.WriteFile(filepath.Join(configDir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Extension == "" || !strings.HasPrefix(c.Extension, ".") {
		return &ConfigError{Field: "extension", Message: "extension must start with '.'"}
	}
	if c.ClientType == "" {
		return &ConfigError{Field: "clientType", Message: "client type must not be empty"}
	}
	if c.MethodPrefix == "" {
		return &ConfigError{Field: "methodPrefix", Message: "method prefix must not be empty"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
