package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int
	DatabasePath   string
	JWTSecret      string
	TokenTTL       time.Duration
	BackupPath     string
	BackupSchedule string // standard 5-field cron expression
	CORSOrigin     string
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "3000")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	ttlStr := getEnv("TOKEN_TTL_HOURS", "168") // 7 days
	ttlHours, err := strconv.Atoi(ttlStr)
	if err != nil {
		return nil, err
	}
	if ttlHours <= 0 {
		return nil, errors.New("TOKEN_TTL_HOURS must be positive")
	}

	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	return &Config{
		ServerPort:     port,
		DatabasePath:   getEnv("DATABASE_PATH", "./juliebook.db"),
		JWTSecret:      secret,
		TokenTTL:       time.Duration(ttlHours) * time.Hour,
		BackupPath:     getEnv("BACKUP_PATH", "./backups"),
		BackupSchedule: getEnv("BACKUP_SCHEDULE", "0 3 * * *"),
		CORSOrigin:     getEnv("CORS_ORIGIN", "http://localhost:3001"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
