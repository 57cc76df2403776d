// Package config provides configuration loading for vectord.
package config

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/vectord/internal/logging"
)

// Config is the full vectord configuration.
type Config struct {
	Server  ServerConfig   `koanf:"server"`
	API     APIConfig      `koanf:"api"`
	Account AccountConfig  `koanf:"account"`
	Logging logging.Config `koanf:"logging"`
}

// ServerConfig identifies the MCP server implementation.
type ServerConfig struct {
	Name    string `koanf:"name"`
	Version string `koanf:"version"`
}

// APIConfig configures the remote vector-database API client.
type APIConfig struct {
	// BaseURL is the API root URL.
	BaseURL string `koanf:"base_url"`

	// Token is the bearer token for API authentication. Prefer setting
	// this via VECTORD_API_TOKEN rather than the config file.
	Token Secret `koanf:"token"`

	// Timeout bounds each API request.
	Timeout Duration `koanf:"timeout"`
}

// AccountConfig sets the account every tool call is scoped to.
type AccountConfig struct {
	// ID is the active account identifier. When empty, the
	// VECTORD_ACCOUNT_ID environment variable is consulted per call.
	ID string `koanf:"id"`
}

// DefaultConfig returns configuration defaults. API base URL and token have
// no defaults; they must come from the file or the environment.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:    "vectord",
			Version: "dev",
		},
		API: APIConfig{
			Timeout: Duration(30 * time.Second),
		},
		Logging: *logging.DefaultConfig(),
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Server.Name == "" {
		return fmt.Errorf("server.name is required")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Token == "" {
		return fmt.Errorf("api.token is required (set VECTORD_API_TOKEN)")
	}
	if c.API.Timeout.Duration() <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", c.API.Timeout)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
