package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr             string
	DatabaseURL      string
	Environment      string
	RunMigrations    bool
	RunSeed          bool
	MigrationsDir    string
	MaxBodyBytes     int64
	MetricsEnabled   bool
	RolloverInterval time.Duration
	SeedDemoData     bool
}

func Load() Config {
	return Config{
		Addr:             getEnv("APP_ADDR", ":8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		Environment:      getEnv("APP_ENV", "development"),
		RunMigrations:    getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:          getEnvBool("RUN_SEED", true),
		MigrationsDir:    getEnv("MIGRATIONS_DIR", "migrations"),
		MaxBodyBytes:     int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		MetricsEnabled:   getEnvBool("METRICS_ENABLED", true),
		RolloverInterval: getEnvDuration("LEAVE_ROLLOVER_INTERVAL", 24*time.Hour),
		SeedDemoData:     getEnvBool("SEED_DEMO_DATA", false),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	return nil
}
