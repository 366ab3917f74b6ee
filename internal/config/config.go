package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Generation backend
	GenerationProvider    string
	GeminiAPIKey          string
	GeminiModelID         string
	BedrockModelID        string
	GenerationTemperature float32
	GenerationMaxTokens   int
	GenerationTimeout     time.Duration

	// Chat widget profile
	ChatMinDelay      time.Duration
	ChatFallbackDelay time.Duration
	ChatHistoryWindow int
	SessionIdleTTL    time.Duration
	KnowledgeFile     string

	// AWS (Bedrock, SES)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Lead notification email
	EmailProvider  string
	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string
	LeadsInbox     string

	// Rate limiting
	RedisAddr      string
	RedisPassword  string
	RedisTLS       bool
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"https://hvacohc.ca"}),

		GenerationProvider:    strings.ToLower(strings.TrimSpace(getEnv("GENERATION_PROVIDER", "gemini"))),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:         getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		BedrockModelID:        getEnv("BEDROCK_MODEL_ID", ""),
		GenerationTemperature: getEnvAsFloat32("GENERATION_TEMPERATURE", 0.7),
		GenerationMaxTokens:   getEnvAsInt("GENERATION_MAX_TOKENS", 1024),
		GenerationTimeout:     getEnvAsDuration("GENERATION_TIMEOUT", 20*time.Second),

		ChatMinDelay:      getEnvAsDuration("CHAT_MIN_DELAY", 1500*time.Millisecond),
		ChatFallbackDelay: getEnvAsDuration("CHAT_FALLBACK_DELAY", 1000*time.Millisecond),
		ChatHistoryWindow: getEnvAsInt("CHAT_HISTORY_WINDOW", 4),
		SessionIdleTTL:    getEnvAsDuration("SESSION_IDLE_TTL", 30*time.Minute),
		KnowledgeFile:     getEnv("KNOWLEDGE_FILE", ""),

		AWSRegion:           getEnv("AWS_REGION", "ca-central-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		EmailProvider:  strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "stub"))),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "no-reply@hvacohc.ca"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "Ontario Heating and Cooling"),
		LeadsInbox:     getEnv("LEADS_INBOX", "info@hvacohc.ca"),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),
		RateLimitRPS:   getEnvAsFloat64("RATE_LIMIT_RPS", 2),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
