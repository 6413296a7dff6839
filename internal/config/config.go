package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort       int
	Env              string // "development" or "production"
	LogLevel         string
	SessionKey       string
	JWTSecret        string
	AllowedOrigins   []string
	AssistantURL     string // Text-generation endpoint for the support assistant
	AssistantTimeout time.Duration
	ReminderCron     string // Schedule for the elapsed-session reminder job
	ChatRatePerMin   int
	SessionMaxAge    time.Duration
	RollbarToken     string // Error reporting is off when empty
}

// IsProduction reports whether the service runs with production cookie settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(getEnv("ASSISTANT_TIMEOUT", "30s"))
	if err != nil {
		return nil, err
	}

	chatRate, err := strconv.Atoi(getEnv("CHAT_RATE_PER_MIN", "20"))
	if err != nil {
		return nil, err
	}

	maxAge, err := time.ParseDuration(getEnv("SESSION_MAX_AGE", "168h"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:       port,
		Env:              getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		SessionKey:       getEnv("SESSION_KEY", "dev-session-key-change-me-0123456789abcdef"),
		JWTSecret:        getEnv("JWT_SECRET", "dev-jwt-secret-change-me"),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		AssistantURL:     getEnv("ASSISTANT_URL", ""),
		AssistantTimeout: timeout,
		ReminderCron:     getEnv("REMINDER_CRON", "@every 1m"),
		ChatRatePerMin:   chatRate,
		SessionMaxAge:    maxAge,
		RollbarToken:     getEnv("ROLLBAR_TOKEN", ""),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
