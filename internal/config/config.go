package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy bool

	// Database (optional, enables the reply event log)
	DatabaseURL string

	// Redis (optional, credential store falls back to memory)
	RedisURL string

	// Operator auth
	JWTSecret         string
	AdminPasswordHash string

	// Chat provider
	ChatProvider         string
	ChatAPIURL           string
	ChatModel            string
	ChatMaxTokens        int
	ChatTemperature      float64
	ChatPresencePenalty  float64
	ChatFrequencyPenalty float64
	ChatHistoryWindow    int
	SystemPromptFile     string
	FallbackRulesFile    string
	CredentialKey        string

	// Sessions
	SessionIdleMinutes int
	ChatRatePerMinute  int

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		TrustProxy:           getEnvAsBoolOrDefault("TRUST_PROXY", false),
		DatabaseURL:          getEnvOrDefault("DATABASE_URL", ""),
		RedisURL:             getEnvOrDefault("REDIS_URL", ""),
		JWTSecret:            mustGetEnv("JWT_SECRET"),
		AdminPasswordHash:    getEnvOrDefault("ADMIN_PASSWORD_HASH", ""),
		ChatProvider:         strings.ToLower(getEnvOrDefault("CHAT_PROVIDER", "openai")),
		ChatAPIURL:           getEnvOrDefault("CHAT_API_URL", "https://api.openai.com/v1"),
		ChatModel:            getEnvOrDefault("CHAT_MODEL", "gpt-3.5-turbo"),
		ChatMaxTokens:        getEnvAsIntOrDefault("CHAT_MAX_TOKENS", 500),
		ChatTemperature:      getEnvAsFloatOrDefault("CHAT_TEMPERATURE", 0.7),
		ChatPresencePenalty:  getEnvAsFloatOrDefault("CHAT_PRESENCE_PENALTY", 0.1),
		ChatFrequencyPenalty: getEnvAsFloatOrDefault("CHAT_FREQUENCY_PENALTY", 0.1),
		ChatHistoryWindow:    getEnvAsIntOrDefault("CHAT_HISTORY_WINDOW", 10),
		SystemPromptFile:     getEnvOrDefault("CHAT_SYSTEM_PROMPT_FILE", ""),
		FallbackRulesFile:    getEnvOrDefault("FALLBACK_RULES_FILE", ""),
		CredentialKey:        getEnvOrDefault("CREDENTIAL_KEY", "openai_api_key"),
		SessionIdleMinutes:   getEnvAsIntOrDefault("SESSION_IDLE_TIMEOUT_MINUTES", 30),
		ChatRatePerMinute:    getEnvAsIntOrDefault("CHAT_RATE_PER_MINUTE", 30),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", ""),
		LogFile:              getEnvOrDefault("LOG_FILE", ""),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

// Validate checks the values that would otherwise only fail at request time.
func (c *Config) Validate() error {
	switch c.ChatProvider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unsupported chat provider: %s", c.ChatProvider)
	}

	if c.ChatTemperature < 0 || c.ChatTemperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got: %f", c.ChatTemperature)
	}
	if c.ChatPresencePenalty < -2 || c.ChatPresencePenalty > 2 {
		return fmt.Errorf("presence_penalty must be between -2 and 2, got: %f", c.ChatPresencePenalty)
	}
	if c.ChatFrequencyPenalty < -2 || c.ChatFrequencyPenalty > 2 {
		return fmt.Errorf("frequency_penalty must be between -2 and 2, got: %f", c.ChatFrequencyPenalty)
	}
	if c.ChatMaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got: %d", c.ChatMaxTokens)
	}
	if c.ChatHistoryWindow < 0 {
		return fmt.Errorf("history window must not be negative, got: %d", c.ChatHistoryWindow)
	}
	if c.SessionIdleMinutes <= 0 {
		return fmt.Errorf("session idle timeout must be positive, got: %d", c.SessionIdleMinutes)
	}
	if strings.TrimSpace(c.CredentialKey) == "" {
		return fmt.Errorf("credential key must not be empty")
	}

	return nil
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
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

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
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
