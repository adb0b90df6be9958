package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Inference
	InferenceProvider string
	InferenceModel    string
	InferenceBaseURL  string
	// APIKeyEnv names the environment variable holding the provider credential.
	// The credential is looked up on every request, never cached here.
	APIKeyEnv string

	// Redis (optional, shared rate limiter)
	RedisURL      string
	ChatRateLimit int

	// JWT (optional, bearer check on the chat route)
	JWTSecret string

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string

	// Telemetry
	TelemetryEnabled bool
	TelemetryDir     string

	// Frontend origin allowed by CORS
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	provider := strings.ToLower(getEnvOrDefault("INFERENCE_PROVIDER", ProviderGroq))

	cfg := &Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		Env:               getEnvOrDefault("ENV", "development"),
		InferenceProvider: provider,
		InferenceModel:    getEnvOrDefault("INFERENCE_MODEL", defaultModel(provider)),
		InferenceBaseURL:  getEnvOrDefault("INFERENCE_BASE_URL", ""),
		APIKeyEnv:         getEnvOrDefault("INFERENCE_API_KEY_ENV", defaultKeyEnv(provider)),
		RedisURL:          getEnvOrDefault("REDIS_URL", ""),
		ChatRateLimit:     getEnvAsIntOrDefault("CHAT_RATE_LIMIT", 20),
		JWTSecret:         getEnvOrDefault("JWT_SECRET", ""),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         getEnvOrDefault("LOG_FORMAT", "json"),
		LogFile:           getEnvOrDefault("LOG_FILE", ""),
		TelemetryEnabled:  getEnvAsBoolOrDefault("TELEMETRY_ENABLED", false),
		TelemetryDir:      getEnvOrDefault("TELEMETRY_DIR", "logs"),
		FrontendURL:       getEnvOrDefault("FRONTEND_URL", "*"),
	}

	return cfg
}

// APIKey reads the inference credential from the environment at call time.
// An empty result means the server is misconfigured.
func (c *Config) APIKey() string {
	return strings.TrimSpace(os.Getenv(c.APIKeyEnv))
}

func defaultModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-2.0-flash"
	}
	return "llama-3.1-8b-instant"
}

func defaultKeyEnv(provider string) string {
	if provider == ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "GROQ_API_KEY"
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
