package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Database (listing history archive; empty disables persistence)
	DatabaseURL string

	// Redis (shared rate limiting for real marketplace clients)
	RedisURL string

	// Sources
	SourceTimeout     time.Duration
	GrailedRateLimit  int // requests per minute
	SimulatedSeed     int64
	DefaultSearchSize int

	// Watcher
	WatchPollInterval time.Duration

	// Notifications
	DiscordWebhookURL string
	DiscordBotToken   string
	DiscordChannelID  string
}

func Load() (*Config, error) {
	// Try loading from current directory first, then parent.
	// We ignore errors here as we might be running in an environment
	// where env vars are set directly (e.g. docker/k8s).
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		SourceTimeout:     getDurationEnv("SOURCE_TIMEOUT", 10*time.Second),
		GrailedRateLimit:  getIntEnv("GRAILED_RATE_LIMIT", 30),
		SimulatedSeed:     int64(getIntEnv("SIMULATED_SEED", 0)),
		DefaultSearchSize: getIntEnv("DEFAULT_SEARCH_SIZE", 20),

		WatchPollInterval: getDurationEnv("WATCH_POLL_INTERVAL", 5*time.Minute),

		DiscordWebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
		DiscordBotToken:   getEnv("DISCORD_BOT_TOKEN", ""),
		DiscordChannelID:  getEnv("DISCORD_CHANNEL_ID", ""),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// SplitList parses a comma separated env value into trimmed entries.
func SplitList(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
