/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/logan/pkg/codec"
	"github.com/ssargent/logan/pkg/entry"
)

// Config represents the logan configuration
type Config struct {
	Key       string  `yaml:"key"`
	IV        string  `yaml:"iv"`
	OutputDir string  `yaml:"output_dir"`
	Mode      string  `yaml:"mode"`
	TimeZone  string  `yaml:"time_zone"`
	Logging   Logging `yaml:"logging"`
	Metrics   Metrics `yaml:"metrics"`
	Server    Server  `yaml:"server"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// Metrics contains metrics export configuration
type Metrics struct {
	Textfile string `yaml:"textfile"` // Written after each CLI parse when set
}

// Server contains HTTP server configuration
type Server struct {
	Port           int      `yaml:"port"`
	Bind           string   `yaml:"bind"`
	APIKey         string   `yaml:"api_key"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		OutputDir: "",
		Mode:      string(entry.ModeStrict),
		TimeZone:  "UTC",
		Logging: Logging{
			Level: "info",
		},
		Server: Server{
			Port:           8080,
			Bind:           "127.0.0.1",
			MaxUploadBytes: 256 << 20,
		},
	}
}

// LoadConfig loads configuration from the specified path on top of the defaults
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Keys live in this file
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the decoding parameters are usable
func (c *Config) Validate() error {
	if c.Key == "" || c.IV == "" {
		return fmt.Errorf("key and iv are required")
	}
	if _, err := codec.NewFromStrings(c.Key, c.IV); err != nil {
		return fmt.Errorf("invalid key or iv: %w", err)
	}
	if _, err := entry.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves TimeZone
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig writes a new configuration with a generated server API key
func BootstrapConfig(configPath, key, iv string) (*Config, error) {
	config := DefaultConfig()
	config.Key = key
	config.IV = iv

	apiKey, err := GenerateSecureKey(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate api key: %w", err)
	}
	config.Server.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./logan.yaml"
	}

	return filepath.Join(homeDir, ".config", "logan", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
