// Package config loads process-wide configuration from environment variables.
//
// Configuration is parsed once in main and treated as read-only afterwards.
// Components receive the values they need through constructors; nothing reads
// the environment after startup.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable for the auth server.
type Config struct {
	// Port the HTTP server listens on.
	Port int `env:"PORT" envDefault:"8080"`

	// DBPath is the SQLite database file. The parent directory is created
	// on startup if missing. ":memory:" works for local experiments.
	DBPath string `env:"DB_PATH" envDefault:"data/patchwork.db"`

	// JWTSecret signs session tokens (HS256). Required; generate with
	// `openssl rand -hex 32`.
	JWTSecret string `env:"JWT_SECRET"`

	// TemplateDir contains the HTML templates for the landing page.
	TemplateDir string `env:"TEMPLATE_DIR" envDefault:"web/templates"`

	// GitHubAPIURL is the base URL of the GitHub REST API. Overridden in
	// tests to point at a local stub.
	GitHubAPIURL string `env:"GITHUB_API_URL" envDefault:"https://api.github.com"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	return cfg, nil
}
