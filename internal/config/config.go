// Package config loads process configuration by layering defaults, an
// optional YAML file, and environment variables.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

// Config contains process configuration.
type Config struct {
	// HTTPPort is the listen port for the API server.
	HTTPPort int `koanf:"http_port"`

	// DBPath is the SQLite database file path.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// AnthropicAPIKey authenticates against the LLM service. Resolved per
	// request; a missing key fails /chat with a 500 rather than refusing
	// to boot.
	AnthropicAPIKey string `koanf:"anthropic_api_key"`

	// Model and Temperature configure the LLM.
	Model       string  `koanf:"model"`
	Temperature float64 `koanf:"temperature"`
}

func defaults() *Config {
	return &Config{
		HTTPPort:    8080,
		DBPath:      "./rallyup.db",
		LogLevel:    "info",
		Temperature: 0.1,
	}
}

// Load builds a Config by layering (low -> high):
//  1. defaults
//  2. YAML file if RALLYUP_CONFIG is set
//  3. env vars with prefix RALLYUP_ (RALLYUP_HTTP_PORT, RALLYUP_DB_PATH, ...)
//
// ANTHROPIC_API_KEY is honored without the prefix for compatibility with the
// standard Anthropic tooling convention.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("RALLYUP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	envProvider := env.Provider("RALLYUP_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "rallyup_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.AnthropicAPIKey == "" {
		cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	if cfg.DBPath == "" {
		return nil, errors.New("db_path must not be empty")
	}
	return &cfg, nil
}
