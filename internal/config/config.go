package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	AuthJWTSecret string

	// Meta webhook / Graph API
	MetaAppSecret      string
	MetaVerifyToken    string
	MetaGraphAPIBase   string
	MetaFetchTimeout   time.Duration
	PageTokenTTL       time.Duration
	WebhookDedupeTTL   time.Duration
	CORSAllowedOrigins string
	LeadNotifyEnabled  bool

	RedisAddr     string
	RedisPassword string

	// SendGrid lead notifications
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		AuthJWTSecret: getEnv("AUTH_JWT_SECRET", ""),

		MetaAppSecret:      getEnv("META_APP_SECRET", ""),
		MetaVerifyToken:    getEnv("META_APP_VERIFY_TOKEN", ""),
		MetaGraphAPIBase:   getEnv("META_GRAPH_API_BASE", ""),
		MetaFetchTimeout:   getEnvAsDuration("META_FETCH_TIMEOUT", 10*time.Second),
		PageTokenTTL:       getEnvAsDuration("PAGE_TOKEN_TTL", time.Hour),
		WebhookDedupeTTL:   getEnvAsDuration("WEBHOOK_DEDUPE_TTL", 24*time.Hour),
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
		LeadNotifyEnabled:  getEnvAsBool("LEAD_NOTIFY_ENABLED", false),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Leadhook"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
