// Package config loads runtime configuration from the environment. All
// settings travel in an explicit Config struct handed to constructors; there
// is no ambient global state.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTPAddr is the listen address of the JSON API.
	HTTPAddr string

	// DBPath is the SQLite database file.
	DBPath string

	// BotToken enables the Telegram front end and notifier when set.
	BotToken string

	// NotifyChatID is the management chat receiving admission notifications
	// and stats digests.
	NotifyChatID int64

	// RecomputeInterval is the leaderboard refresh period.
	RecomputeInterval time.Duration
}

// Load reads configuration from a .env file (if present) and the process
// environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using system environment variables")
	}

	return &Config{
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		DBPath:            getEnv("DB_PATH", "./data/spending.db"),
		BotToken:          getEnv("TELEGRAM_BOT_TOKEN", ""),
		NotifyChatID:      getEnvInt64("TELEGRAM_CHAT_ID", 0),
		RecomputeInterval: getEnvDuration("RECOMPUTE_INTERVAL", time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		slog.Warn("Invalid integer in environment, using fallback", "key", key, "value", value)
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Invalid duration in environment, using fallback", "key", key, "value", value)
		return fallback
	}
	return parsed
}
