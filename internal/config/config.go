// Package config loads application configuration from an optional YAML file
// and the environment. Environment variables use the IDESK_ prefix with "__"
// as the section separator, e.g. IDESK_SERVER__PORT=8080.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "IDESK_"

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
	CORS    CORSConfig    `koanf:"cors"`
	Session SessionConfig `koanf:"session"`
	Assist  AssistConfig  `koanf:"assist"`
	Store   StoreConfig   `koanf:"store"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port"`
	MetricsPort       string        `koanf:"metrics_port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// SessionConfig holds persona session token settings.
type SessionConfig struct {
	SecretKey     string        `koanf:"secret_key"`
	TokenDuration time.Duration `koanf:"token_duration"`
}

// AssistConfig holds triage-assist and chatbot settings.
type AssistConfig struct {
	Enabled    bool          `koanf:"enabled"`
	APIKey     string        `koanf:"api_key"`
	Model      string        `koanf:"model"`
	BaseURL    string        `koanf:"base_url"`
	Timeout    time.Duration `koanf:"timeout"`
	Debounce   time.Duration `koanf:"debounce"`
	SessionTTL time.Duration `koanf:"session_ttl"`
	RateLimit  float64       `koanf:"rate_limit"`
	RateBurst  int           `koanf:"rate_burst"`
}

// StoreConfig holds incident store settings.
type StoreConfig struct {
	Strict bool `koanf:"strict"`
	Seed   bool `koanf:"seed"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "8080",
			MetricsPort:       "9090",
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Session: SessionConfig{
			SecretKey:     "dev-only-secret",
			TokenDuration: 12 * time.Hour,
		},
		Assist: AssistConfig{
			Enabled:    true,
			Model:      "gpt-4o-mini",
			Timeout:    15 * time.Second,
			Debounce:   time.Second,
			SessionTTL: 30 * time.Minute,
			RateLimit:  1,
			RateBurst:  3,
		},
		Store: StoreConfig{
			Strict: false,
			Seed:   true,
		},
	}
}

// Load reads configuration from the given YAML file (optional, pass "" to
// skip) and the environment. Environment variables override file values.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(envPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := defaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Session.SecretKey == "" {
		return fmt.Errorf("session.secret_key must not be empty")
	}
	if c.Assist.Enabled && c.Assist.Debounce <= 0 {
		return fmt.Errorf("assist.debounce must be positive")
	}
	return nil
}
