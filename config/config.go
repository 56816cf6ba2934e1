package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort      string
	ServerHost      string
	ShutdownTimeout time.Duration

	// AppBaseURL is the public origin of the frontend. When set it is the
	// only origin allowed by CORS.
	AppBaseURL string

	LLM LLMConfig
	Log LogConfig

	// RedisURL enables the shared submission tracker and rate limiting when set
	RedisURL string

	RateLimit RateLimitConfig

	// TrustedProxies lists the proxy IPs or CIDRs allowed to set
	// X-Forwarded-For. Empty means the peer address is always the client.
	TrustedProxies []string

	TracingEnabled bool
}

// LLMConfig configures the Gemini text model client
type LLMConfig struct {
	APIKey string
	APIURL string
	Model  string
}

// RateLimitConfig bounds generation requests per client. A zero Limit
// disables the limiter.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string
	Format string
}

const (
	DefaultGeminiURL   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel = "gemini-1.5-flash"
)

// LoadConfig reads configuration from the environment, an optional .env file
// and Docker secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	// .env files are a development convenience; production uses real
	// environment variables and secrets only
	if env != Production {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v, env)

	cfg := &Config{
		Environment:     env,
		ServerPort:      v.GetString("SERVER_PORT"),
		ServerHost:      v.GetString("SERVER_HOST"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		AppBaseURL:      strings.TrimRight(v.GetString("APP_BASE_URL"), "/"),
		LLM: LLMConfig{
			APIURL: strings.TrimRight(v.GetString("GEMINI_API_URL"), "/"),
			Model:  v.GetString("GEMINI_MODEL"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		RedisURL: v.GetString("REDIS_URL"),
		RateLimit: RateLimitConfig{
			Limit:  v.GetInt("RATE_LIMIT_REQUESTS"),
			Window: v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
		TracingEnabled: v.GetBool("TRACING_ENABLED"),
	}

	apiKey, err := loadAPIKey(v)
	if err != nil {
		return nil, err
	}
	cfg.LLM.APIKey = apiKey

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, env Environment) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("GEMINI_API_URL", DefaultGeminiURL)
	v.SetDefault("GEMINI_MODEL", DefaultGeminiModel)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("RATE_LIMIT_REQUESTS", 30)
	v.SetDefault("RATE_LIMIT_WINDOW", "1h")

	if env == Production {
		v.SetDefault("LOG_FORMAT", "json")
	} else {
		v.SetDefault("LOG_FORMAT", "console")
	}
}

// loadAPIKey resolves the Gemini key from GEMINI_API_KEY, then the file named
// by GEMINI_API_KEY_FILE, then the gemini_api_key Docker secret
func loadAPIKey(v *viper.Viper) (string, error) {
	if key := strings.TrimSpace(v.GetString("GEMINI_API_KEY")); key != "" {
		return key, nil
	}

	if keyFile := v.GetString("GEMINI_API_KEY_FILE"); keyFile != "" {
		data, err := os.ReadFile(keyFile)
		if err != nil {
			return "", fmt.Errorf("failed to read API key file: %w", err)
		}
		key := strings.TrimSpace(string(data))
		if key == "" {
			return "", fmt.Errorf("API key file is empty")
		}
		return key, nil
	}

	return readSecret("gemini_api_key"), nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// splitList parses a comma-separated value, dropping empty entries
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}
