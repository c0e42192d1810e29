// Package common provides shared utilities for Wealthview
package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/wealthview/wealthview/internal/interfaces"
)

// Config holds all configuration for Wealthview
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
	Auth        AuthConfig    `toml:"auth"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds SurrealDB connection configuration.
type StorageConfig struct {
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Alpaca     AlpacaConfig     `toml:"alpaca"`
	OpenRouter OpenRouterConfig `toml:"openrouter"`
	Resend     ResendConfig     `toml:"resend"`
}

// AlpacaConfig holds Alpaca API configuration.
//
// Environments maps credential-key prefixes to base URLs. Endpoint selection is
// a longest-prefix match against the user's API key; keys matching no prefix
// route to BaseURL (the live trading host).
type AlpacaConfig struct {
	BaseURL      string            `toml:"base_url"`
	Environments map[string]string `toml:"environments"`
	RateLimit    int               `toml:"rate_limit"`
	Timeout      string            `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *AlpacaConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// OpenRouterConfig holds OpenRouter completion API configuration
type OpenRouterConfig struct {
	BaseURL     string  `toml:"base_url"`
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
	Timeout     string  `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *OpenRouterConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ResendConfig holds Resend email API configuration
type ResendConfig struct {
	APIKey string `toml:"api_key"`
	From   string `toml:"from"`
	AppURL string `toml:"app_url"`
}

// AuthConfig holds JWT authentication configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000",
			Namespace: "wealthview",
			Database:  "wealthview",
			Username:  "root",
			Password:  "root",
		},
		Clients: ClientsConfig{
			Alpaca: AlpacaConfig{
				BaseURL: "https://api.alpaca.markets",
				Environments: map[string]string{
					"PK": "https://paper-api.alpaca.markets",
				},
				RateLimit: 5,
				Timeout:   "10s",
			},
			OpenRouter: OpenRouterConfig{
				BaseURL:     "https://openrouter.ai/api/v1",
				Model:       "anthropic/claude-3.5-haiku",
				Temperature: 0.7,
				MaxTokens:   1200,
				Timeout:     "30s",
			},
			Resend: ResendConfig{
				From:   "Wealthview <onboarding@resend.dev>",
				AppURL: "http://localhost:3000",
			},
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("WEALTHVIEW_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("WEALTHVIEW_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("WEALTHVIEW_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("WEALTHVIEW_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("WEALTHVIEW_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}
	if v := os.Getenv("WEALTHVIEW_STORAGE_USERNAME"); v != "" {
		config.Storage.Username = v
	}
	if v := os.Getenv("WEALTHVIEW_STORAGE_PASSWORD"); v != "" {
		config.Storage.Password = v
	}

	if v := os.Getenv("WEALTHVIEW_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}

	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		config.Clients.OpenRouter.APIKey = v
	}
	if v := os.Getenv("RESEND_API_KEY"); v != "" {
		config.Clients.Resend.APIKey = v
	}
	if v := os.Getenv("WEALTHVIEW_APP_URL"); v != "" {
		config.Clients.Resend.AppURL = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key from environment, InternalStore, or fallback
func ResolveAPIKey(ctx context.Context, store interfaces.InternalStore, name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"openrouter_api_key": {"OPENROUTER_API_KEY", "WEALTHVIEW_OPENROUTER_API_KEY"},
		"resend_api_key":     {"RESEND_API_KEY", "WEALTHVIEW_RESEND_API_KEY"},
	}

	// Check environment variables first (highest priority)
	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	// Try InternalStore system KV (medium priority)
	if store != nil {
		apiKey, err := store.GetSystemKV(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	// Fallback (lowest priority)
	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or store", name)
}
