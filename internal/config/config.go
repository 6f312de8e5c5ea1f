package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration for the application.
type Config struct {
	Port         string
	DBPath       string
	JWTSecret    string
	TokenExpiry  time.Duration
	PollInterval time.Duration

	// SMTP settings for the optional welcome mail. Mail is disabled
	// when SMTPHost is empty.
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPPassword string
}

// LoadConfig reads configuration from the environment, loading a .env
// file first if one is present.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on environment variables")
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		DBPath:       getEnv("DB_PATH", "erp.db"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenExpiry:  time.Duration(getEnvInt("TOKEN_EXPIRY_HOURS", 24)) * time.Hour,
		PollInterval: time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 30)) * time.Second,
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPSender:   os.Getenv("SMTP_SENDER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithField("key", key).Warnf("Invalid integer %q, using default %d", value, fallback)
		return fallback
	}
	return n
}
