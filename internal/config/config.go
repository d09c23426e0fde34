package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	DatabasePath        string
	SessionSecret       string
	LogLevel            string
	Port                string
	SeedDefaults        bool
	BillingAutoGenerate bool
	BillingInterval     time.Duration
	BcryptCost          int
}

func Load() (Config, error) {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	config := Config{
		DatabasePath:        envOrDefault("DATABASE_PATH", "./data/mess.db"),
		SessionSecret:       os.Getenv("SESSION_SECRET"),
		LogLevel:            envOrDefault("LOG_LEVEL", "info"),
		Port:                envOrDefault("PORT", "8080"),
		SeedDefaults:        envBool("SEED_DEFAULTS", true),
		BillingAutoGenerate: envBool("BILLING_AUTO_GENERATE", false),
		BillingInterval:     envDuration("BILLING_INTERVAL", time.Hour),
		BcryptCost:          envInt("BCRYPT_COST", bcrypt.DefaultCost),
	}

	if config.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}
	if config.BcryptCost < bcrypt.MinCost || config.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return config, nil
}

func (config Config) SlogLevel() slog.Level {
	switch strings.ToLower(config.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

func envInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func envDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
