// Package config loads relay configuration from the environment, with an
// optional TOML file overlay for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultPort is used when PORT is unset.
	DefaultPort = 8080

	// EnvProduction restricts the permitted cross-origin caller.
	EnvProduction = "production"
)

// ErrMissingCredentials is returned when SOUNDCLOUD_CLIENT_ID or
// SOUNDCLOUD_CLIENT_SECRET is not set.
var ErrMissingCredentials = errors.New("missing SOUNDCLOUD_CLIENT_ID or SOUNDCLOUD_CLIENT_SECRET environment variable")

// Config holds all settings the relay consumes. Credentials are validated at
// startup so per-request code never has to re-check them.
type Config struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	Port         int    `toml:"port"`
	Environment  string `toml:"environment"`
}

// Load reads configuration from environment variables. If path is non-empty
// and the file exists, its values fill in anything the environment left blank.
// Returns ErrMissingCredentials when client credentials are absent from both.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ClientID:     os.Getenv("SOUNDCLOUD_CLIENT_ID"),
		ClientSecret: os.Getenv("SOUNDCLOUD_CLIENT_SECRET"),
		RedirectURI:  os.Getenv("SOUNDCLOUD_REDIRECT_URI"),
		Environment:  os.Getenv("APP_ENV"),
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("parsing PORT: %w", err)
		}
		cfg.Port = p
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.overlayFile(path); err != nil {
				return nil, err
			}
		}
	}

	cfg.applyDefaults()

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}
	return cfg, nil
}

// overlayFile fills unset fields from a TOML file.
func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var file Config
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if c.ClientID == "" {
		c.ClientID = file.ClientID
	}
	if c.ClientSecret == "" {
		c.ClientSecret = file.ClientSecret
	}
	if c.RedirectURI == "" {
		c.RedirectURI = file.RedirectURI
	}
	if c.Environment == "" {
		c.Environment = file.Environment
	}
	if c.Port == 0 {
		c.Port = file.Port
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.RedirectURI == "" {
		c.RedirectURI = fmt.Sprintf("http://127.0.0.1:%d/callback", c.Port)
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
}

// AllowedOrigin returns the cross-origin caller permitted for this
// environment: the deployed frontend in production, any localhost port
// otherwise.
func (c *Config) AllowedOrigin() string {
	if c.Environment == EnvProduction {
		return "https://app.soundmood.dev"
	}
	return "http://localhost:*"
}
