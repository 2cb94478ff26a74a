package config

import (
	"os"
	"strconv"
	"time"
)

// EnvProduction is the APP_ENV value that hides diagnostic detail from error responses.
const EnvProduction = "production"

// LLM provider identifiers accepted by LLM_PROVIDER.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// DatabaseConfig holds PostgreSQL settings for the generation audit log.
// Leaving Host empty disables auditing.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// Enabled reports whether an audit database has been configured.
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// MinIOConfig holds object storage settings for the diagnostic trace archive.
// Leaving Endpoint empty disables archiving.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether a trace archive has been configured.
func (c MinIOConfig) Enabled() bool { return c.Endpoint != "" }

// Output token budget bounds applied to LLM_MAX_TOKENS.
const (
	MinMaxTokens = 1
	MaxMaxTokens = 32768
)

// LLMConfig selects and tunes the hosted text-generation model.
// Model and MaxTokens are tunables, not part of the API contract.
type LLMConfig struct {
	Provider         string
	AnthropicAPIKey  string
	AnthropicBaseURL string
	AnthropicVersion string
	GeminiAPIKey     string
	Model            string
	MaxTokens        int
	TimeoutSec       int
}

// Timeout returns the outbound request timeout.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables once at startup and passed down
// explicitly. Sensitive values are not hardcoded.
type AppConfig struct {
	AppEnv   string
	Port     string
	Timezone string
	Debug    bool
	LLM      LLMConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
}

// IsProduction reports whether diagnostic detail must be suppressed.
func (c *AppConfig) IsProduction() bool { return c.AppEnv == EnvProduction }

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	provider := getEnv("LLM_PROVIDER", ProviderAnthropic)
	return &AppConfig{
		AppEnv:   getEnv("APP_ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
		Debug:    getEnvBool("LOG_DEBUG", false),
		LLM: LLMConfig{
			Provider:         provider,
			AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com/v1"),
			AnthropicVersion: getEnv("ANTHROPIC_VERSION", "2023-06-01"),
			GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:            getEnv("LLM_MODEL", defaultModel(provider)),
			MaxTokens:        clampInt(getEnvInt("LLM_MAX_TOKENS", 1000), MinMaxTokens, MaxMaxTokens),
			TimeoutSec:       getEnvInt("LLM_TIMEOUT_SEC", 60),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func defaultModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-2.0-flash"
	}
	return "claude-3-haiku-20240307"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
