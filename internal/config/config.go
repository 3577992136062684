// Package config provides configuration management for lostpaws.
// It loads settings from an optional YAML file and from environment
// variables with the LOSTPAWS_ prefix. Environment values win over file
// values; anything unset falls back to a default.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the environment variable holding the YAML config path.
const ConfigFileEnv = "LOSTPAWS_CONFIG_FILE"

// Config holds all configuration settings for the lostpaws service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	LLM      LLMConfig      `yaml:"llm"`
	Security SecurityConfig `yaml:"security"`
	Engine   EngineConfig   `yaml:"engine"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int    `yaml:"port"` // Server port (default: 6464)
	Host string `yaml:"host"` // Server host (default: 127.0.0.1)
}

// StorageConfig contains database configuration.
type StorageConfig struct {
	StorageEngine string `yaml:"engine"`       // sqlite or postgres (default: sqlite)
	DataPath      string `yaml:"data_path"`    // SQLite data directory (default: ./data)
	PostgresDSN   string `yaml:"postgres_dsn"` // Required when StorageEngine is postgres
}

// LLMConfig contains the remote analysis provider configuration.
// The API key is the service's only secret and must never be logged.
type LLMConfig struct {
	Provider string        `yaml:"provider"` // openai, anthropic, ollama; empty disables remote analysis
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"` // default: 30s
}

// SecurityConfig contains security and authentication settings.
type SecurityConfig struct {
	SecurityMode string `yaml:"mode"`      // development or production (default: development)
	APIToken     string `yaml:"api_token"` // Bearer token required in production
}

// EngineConfig tunes search-area recommendation.
type EngineConfig struct {
	SightingWindow int `yaml:"sighting_window"` // Recent sightings considered (default: 5)
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 6464,
			Host: "127.0.0.1",
		},
		Storage: StorageConfig{
			StorageEngine: "sqlite",
			DataPath:      "./data",
		},
		LLM: LLMConfig{
			Provider: "openai",
			Timeout:  30 * time.Second,
		},
		Security: SecurityConfig{
			SecurityMode: "development",
		},
		Engine: EngineConfig{
			SightingWindow: 5,
		},
	}
}

// LoadConfig loads configuration from defaults, the YAML file named by
// path (or by LOSTPAWS_CONFIG_FILE when path is empty), and environment
// variables, in increasing order of precedence. The result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides every field whose LOSTPAWS_ variable is set.
func (c *Config) applyEnv() {
	c.Server.Port = getEnvInt("LOSTPAWS_PORT", c.Server.Port)
	c.Server.Host = getEnv("LOSTPAWS_HOST", c.Server.Host)

	c.Storage.StorageEngine = getEnv("LOSTPAWS_STORAGE_ENGINE", c.Storage.StorageEngine)
	c.Storage.DataPath = getEnv("LOSTPAWS_DATA_PATH", c.Storage.DataPath)
	c.Storage.PostgresDSN = getEnv("LOSTPAWS_POSTGRES_DSN", c.Storage.PostgresDSN)

	c.LLM.Provider = getEnv("LOSTPAWS_LLM_PROVIDER", c.LLM.Provider)
	c.LLM.APIKey = getEnv("LOSTPAWS_LLM_API_KEY", c.LLM.APIKey)
	c.LLM.Model = getEnv("LOSTPAWS_LLM_MODEL", c.LLM.Model)
	c.LLM.BaseURL = getEnv("LOSTPAWS_LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.Timeout = getEnvDuration("LOSTPAWS_LLM_TIMEOUT", c.LLM.Timeout)

	c.Security.SecurityMode = getEnv("LOSTPAWS_SECURITY_MODE", c.Security.SecurityMode)
	c.Security.APIToken = getEnv("LOSTPAWS_API_TOKEN", c.Security.APIToken)

	c.Engine.SightingWindow = getEnvInt("LOSTPAWS_SIGHTING_WINDOW", c.Engine.SightingWindow)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port %d out of range", c.Server.Port))
	}

	switch c.Storage.StorageEngine {
	case "sqlite":
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres storage requires LOSTPAWS_POSTGRES_DSN"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage engine %q", c.Storage.StorageEngine))
	}

	switch c.LLM.Provider {
	case "", "openai", "anthropic", "ollama":
	default:
		errs = append(errs, fmt.Errorf("unsupported llm provider %q", c.LLM.Provider))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, errors.New("llm timeout must be positive"))
	}

	switch c.Security.SecurityMode {
	case "development":
	case "production":
		if c.Security.APIToken == "" {
			errs = append(errs, errors.New("production mode requires LOSTPAWS_API_TOKEN"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported security mode %q", c.Security.SecurityMode))
	}

	if c.Engine.SightingWindow <= 0 {
		errs = append(errs, errors.New("sighting window must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// RemoteEnabled reports whether remote analysis can be attempted. Hosted
// providers need an API key; without one every request uses fallback
// generation.
func (c *Config) RemoteEnabled() bool {
	switch c.LLM.Provider {
	case "ollama":
		return true
	case "openai", "anthropic":
		return c.LLM.APIKey != ""
	}
	return false
}

// IsProduction reports whether the service runs in production security mode.
func (c *Config) IsProduction() bool {
	return c.Security.SecurityMode == "production"
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value.
// If the environment variable exists but cannot be parsed as an integer,
// it returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable ("45s", "2m")
// or returns a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
