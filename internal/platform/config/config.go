// Package config loads application configuration from environment variables.
// All variables use the NAV_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server         ServerConfig
	Database       DatabaseConfig
	Cache          CacheConfig
	AI             AIConfig
	Engine         EngineConfig
	Log            LogConfig
	CurriculumPath string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds PostgreSQL connection settings. An empty URL keeps
// student data in memory.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// CacheConfig holds Dragonfly/Redis connection settings.
type CacheConfig struct {
	URL string
}

// AIConfig holds configuration for the text-generation providers.
type AIConfig struct {
	OpenAI OpenAIConfig
	Ollama OllamaConfig
}

// OpenAIConfig holds settings for any OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OllamaConfig holds self-hosted Ollama settings.
type OllamaConfig struct {
	Enabled bool
	URL     string
}

// EngineConfig holds recommendation engine settings.
type EngineConfig struct {
	ForecastTimeoutSeconds  int
	ForecastCacheTTLMinutes int
}

// ForecastTimeout returns the forecast call bound as a duration.
func (e EngineConfig) ForecastTimeout() time.Duration {
	return time.Duration(e.ForecastTimeoutSeconds) * time.Second
}

// ForecastCacheTTL returns how long validated forecasts are cached.
func (e EngineConfig) ForecastCacheTTL() time.Duration {
	return time.Duration(e.ForecastCacheTTLMinutes) * time.Minute
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with NAV_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("NAV_SERVER_PORT", 8080),
			Host: envStr("NAV_SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			URL:      envStr("NAV_DATABASE_URL", ""),
			MaxConns: envInt("NAV_DATABASE_MAX_CONNS", 25),
			MinConns: envInt("NAV_DATABASE_MIN_CONNS", 5),
		},
		Cache: CacheConfig{
			URL: envStr("NAV_CACHE_URL", "redis://localhost:6379"),
		},
		AI: AIConfig{
			OpenAI: OpenAIConfig{
				APIKey:  envStr("NAV_AI_OPENAI_API_KEY", ""),
				BaseURL: envStr("NAV_AI_OPENAI_BASE_URL", ""),
				Model:   envStr("NAV_AI_OPENAI_MODEL", ""),
			},
			Ollama: OllamaConfig{
				Enabled: envBool("NAV_AI_OLLAMA_ENABLED", false),
				URL:     envStr("NAV_AI_OLLAMA_URL", "http://localhost:11434"),
			},
		},
		Engine: EngineConfig{
			ForecastTimeoutSeconds:  envInt("NAV_ENGINE_FORECAST_TIMEOUT_SECONDS", 8),
			ForecastCacheTTLMinutes: envInt("NAV_ENGINE_FORECAST_CACHE_TTL_MINUTES", 30),
		},
		Log: LogConfig{
			Level:  envStr("NAV_LOG_LEVEL", "info"),
			Format: envStr("NAV_LOG_FORMAT", "json"),
		},
		CurriculumPath: envStr("NAV_CURRICULUM_PATH", "./curriculum"),
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("NAV_SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Engine.ForecastTimeoutSeconds <= 0 {
		return fmt.Errorf("NAV_ENGINE_FORECAST_TIMEOUT_SECONDS must be positive, got %d", c.Engine.ForecastTimeoutSeconds)
	}

	if c.Engine.ForecastCacheTTLMinutes < 0 {
		return fmt.Errorf("NAV_ENGINE_FORECAST_CACHE_TTL_MINUTES must not be negative, got %d", c.Engine.ForecastCacheTTLMinutes)
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("NAV_LOG_FORMAT must be 'json' or 'text', got %q", c.Log.Format)
	}

	return nil
}

// HasAIProvider returns true if at least one AI provider is configured.
// Without one the engine relies on prerequisite analysis alone.
func (c *Config) HasAIProvider() bool {
	return c.AI.OpenAI.APIKey != "" || c.AI.Ollama.Enabled
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}
