package meli

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the Mercado Livre application registration and endpoint
// configuration. All values come from the server environment; client id,
// secret, and redirect URI are never taken from request input.
type Config struct {
	ClientID     string        `env:"MELI_CLIENT_ID"`
	ClientSecret string        `env:"MELI_CLIENT_SECRET"`
	RedirectURI  string        `env:"MELI_REDIRECT_URI"`
	SiteID       string        `env:"MELI_SITE_ID" envDefault:"MLB"`
	AuthURL      string        `env:"MELI_AUTH_URL" envDefault:"https://auth.mercadolibre.com/authorization"`
	TokenURL     string        `env:"MELI_TOKEN_URL" envDefault:"https://api.mercadolibre.com/oauth/token"`
	Timeout      time.Duration `env:"MELI_HTTP_TIMEOUT" envDefault:"15s"`
}

// ConfigFromEnv parses the Mercado Livre configuration from environment
// variables.
func ConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse meli config: %w", err)
	}
	return &cfg, nil
}

// Validate reports a configuration error when any required field is
// unset. Returned as KindConfiguration so handlers surface it as fatal,
// operator-fixable, and never retryable.
func (c *Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" || c.RedirectURI == "" {
		return NewFlowError(KindConfiguration, "Mercado Livre configuration missing", nil)
	}
	return nil
}
