package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Routing       RoutingConfig
	Providers     ProvidersConfig
	Observability ObservabilityConfig
	Environment   string
}

// RoutingConfig holds model fallback and allowlist configuration
type RoutingConfig struct {
	// ModelPriority is the ordered fallback sequence of qualified model
	// names ("provider:name"), highest priority first
	ModelPriority []string

	// AllowedModels is the closed set of qualified model names the
	// gateway may invoke
	AllowedModels []string

	// AttemptTimeout bounds each individual model attempt
	AttemptTimeout time.Duration
}

// ProvidersConfig holds LLM provider configurations
type ProvidersConfig struct {
	OpenAI    ProviderConfig
	Anthropic ProviderConfig
	Gemini    ProviderConfig
	DeepSeek  ProviderConfig
	Gateway   ProviderConfig
}

// ProviderConfig holds one vendor's adapter configuration
type ProviderConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// Enabled reports whether this provider is configured at all. The inhouse
// gateway authenticates by network position, so a base URL alone enables it.
func (p ProviderConfig) Enabled() bool {
	return p.APIKey != "" || p.BaseURL != ""
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or text
}

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Routing: RoutingConfig{
			ModelPriority:  getEnvAsList("REASONING_MODEL_PRIORITY", nil),
			AllowedModels:  getEnvAsList("LLM_ALLOWED_MODELS", nil),
			AttemptTimeout: getEnvAsDuration("ATTEMPT_TIMEOUT", 120*time.Second),
		},
		Providers: ProvidersConfig{
			OpenAI: ProviderConfig{
				APIKey:     getEnv("OPENAI_API_KEY", ""),
				BaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
				Timeout:    getEnvAsDuration("OPENAI_TIMEOUT", 60*time.Second),
				MaxRetries: getEnvAsInt("OPENAI_MAX_RETRIES", 1),
				RetryDelay: getEnvAsDuration("OPENAI_RETRY_DELAY", time.Second),
			},
			Anthropic: ProviderConfig{
				APIKey:     getEnv("ANTHROPIC_API_KEY", ""),
				BaseURL:    getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
				Timeout:    getEnvAsDuration("ANTHROPIC_TIMEOUT", 60*time.Second),
				MaxRetries: getEnvAsInt("ANTHROPIC_MAX_RETRIES", 1),
				RetryDelay: getEnvAsDuration("ANTHROPIC_RETRY_DELAY", time.Second),
			},
			Gemini: ProviderConfig{
				APIKey:     getEnv("GEMINI_API_KEY", ""),
				BaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
				Timeout:    getEnvAsDuration("GEMINI_TIMEOUT", 60*time.Second),
				MaxRetries: getEnvAsInt("GEMINI_MAX_RETRIES", 1),
				RetryDelay: getEnvAsDuration("GEMINI_RETRY_DELAY", time.Second),
			},
			DeepSeek: ProviderConfig{
				APIKey:     getEnv("DEEPSEEK_API_KEY", ""),
				BaseURL:    getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
				Timeout:    getEnvAsDuration("DEEPSEEK_TIMEOUT", 60*time.Second),
				MaxRetries: getEnvAsInt("DEEPSEEK_MAX_RETRIES", 1),
				RetryDelay: getEnvAsDuration("DEEPSEEK_RETRY_DELAY", time.Second),
			},
			Gateway: ProviderConfig{
				APIKey:     getEnv("GATEWAY_API_KEY", ""),
				BaseURL:    getEnv("GATEWAY_BASE_URL", ""),
				Timeout:    getEnvAsDuration("GATEWAY_TIMEOUT", 120*time.Second),
				MaxRetries: getEnvAsInt("GATEWAY_MAX_RETRIES", 1),
				RetryDelay: getEnvAsDuration("GATEWAY_RETRY_DELAY", time.Second),
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if len(c.Routing.ModelPriority) == 0 {
		return fmt.Errorf("model priority is required: set REASONING_MODEL_PRIORITY")
	}
	if len(c.Routing.AllowedModels) == 0 {
		return fmt.Errorf("model allowlist is required: set LLM_ALLOWED_MODELS")
	}
	for _, name := range append(append([]string{}, c.Routing.ModelPriority...), c.Routing.AllowedModels...) {
		if !strings.Contains(name, ":") {
			return fmt.Errorf("model name %q must be qualified as provider:name", name)
		}
	}
	if c.Routing.AttemptTimeout <= 0 {
		return fmt.Errorf("attempt timeout must be positive")
	}

	// Provider validation (at least one provider required in production)
	if c.IsProduction() {
		if !c.Providers.OpenAI.Enabled() &&
			!c.Providers.Anthropic.Enabled() &&
			!c.Providers.Gemini.Enabled() &&
			!c.Providers.DeepSeek.Enabled() &&
			c.Providers.Gateway.BaseURL == "" {
			return fmt.Errorf("at least one LLM provider must be configured in production")
		}
	}

	// Observability validation
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated env var, trimming whitespace and
// dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
