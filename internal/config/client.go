package config

import "github.com/joho/godotenv"

// ClientConfig holds the terminal chat widget's settings. Flags override it.
type ClientConfig struct {
	ProxyURL  string
	LocalMode bool
	Token     string
	GuestName string

	LogLevel string
	LogFile  string
}

func LoadClient() *ClientConfig {
	godotenv.Load()

	return &ClientConfig{
		ProxyURL:  getEnvOrDefault("CHAT_PROXY_URL", "http://localhost:8080/api/chat"),
		LocalMode: getEnvAsBoolOrDefault("CHAT_LOCAL_MODE", false),
		Token:     getEnvOrDefault("CHAT_TOKEN", ""),
		GuestName: getEnvOrDefault("CHAT_GUEST_NAME", "guest"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:   getEnvOrDefault("CHAT_LOG_FILE", "logs/chat.log"),
	}
}

// Logging adapts the client settings to the shared logger setup. The widget
// owns the terminal, so logs always go to a file in text form.
func (c *ClientConfig) Logging() *Config {
	return &Config{
		LogLevel:  c.LogLevel,
		LogFormat: "text",
		LogFile:   c.LogFile,
	}
}
