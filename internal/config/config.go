// Package config loads and validates environment-based configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Auth modes selecting the token strategy.
const (
	AuthModeLocal = "local"
	AuthModeOAuth = "oauth"
)

// Config holds all environment-based configuration for fakturoid-mcp.
type Config struct {
	// OAuth client identity issued by Fakturoid.
	ClientID     string `env:"FAKTUROID_CLIENT_ID"`
	ClientSecret string `env:"FAKTUROID_CLIENT_SECRET"`

	// Account slug the CRUD tools operate on.
	AccountSlug string `env:"FAKTUROID_ACCOUNT_SLUG"`

	// AppName and ContactEmail form the User-Agent header Fakturoid's
	// usage policy requires on every request.
	AppName      string `env:"APP_NAME" envDefault:"fakturoid-mcp"`
	ContactEmail string `env:"CONTACT_EMAIL"`

	// BaseURL is the Fakturoid API root.
	BaseURL string `env:"FAKTUROID_BASE_URL" envDefault:"https://app.fakturoid.cz/api/v3"`

	// AuthMode selects the strategy: "local" (client credentials, single
	// tenant, stdio transport) or "oauth" (authorization code, multi
	// tenant, HTTP transport).
	AuthMode string `env:"AUTH_MODE" envDefault:"local"`

	// TokenDBPath locates the persistent token store in oauth mode.
	// Defaults to ~/.fakturoid-mcp/tokens.db after Load.
	TokenDBPath string `env:"TOKEN_DB_PATH"`

	// HTTP server settings (oauth mode).
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8090"`
	ServerURL  string `env:"SERVER_URL"`

	// Environment controls log format.
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from environment variables.
// It first attempts to load a .env file if present, then parses env vars.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	if cfg.TokenDBPath == "" && cfg.AuthMode == AuthModeOAuth {
		path, err := defaultTokenDBPath()
		if err != nil {
			return nil, err
		}
		cfg.TokenDBPath = path
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("FAKTUROID_CLIENT_ID is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("FAKTUROID_CLIENT_SECRET is required")
	}
	if c.ContactEmail == "" {
		return fmt.Errorf("CONTACT_EMAIL is required (Fakturoid requires a contact in the User-Agent header)")
	}
	if !strings.Contains(c.ContactEmail, "@") {
		return fmt.Errorf("CONTACT_EMAIL %q is not an email address", c.ContactEmail)
	}

	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("FAKTUROID_BASE_URL is not a valid URL: %w", err)
	}
	if c.AccountSlug == "" {
		return fmt.Errorf("FAKTUROID_ACCOUNT_SLUG is required")
	}

	switch c.AuthMode {
	case AuthModeLocal:
	case AuthModeOAuth:
		if c.ServerURL == "" {
			return fmt.Errorf("SERVER_URL is required when AUTH_MODE is oauth")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeLocal, AuthModeOAuth, c.AuthMode)
	}

	return nil
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// defaultTokenDBPath returns ~/.fakturoid-mcp/tokens.db.
func defaultTokenDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, ".fakturoid-mcp", "tokens.db"), nil
}
