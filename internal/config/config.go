package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	CatalogBackendHTTP     = "http"
	CatalogBackendPostgres = "postgres"
)

type Config struct {
	Server       ServerConfig
	Catalog      CatalogConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	User         UserConfig
	Notification NotificationConfig
	Logging      LoggingConfig
}

type ServerConfig struct {
	Addr string
}

type CatalogConfig struct {
	Backend string
	BaseURL string
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type UserConfig struct {
	ID string
}

type NotificationConfig struct {
	// Granted stands in for the OS alert-permission dialog outcome: when
	// false, daily alerts are skipped but picks still reach the widget.
	Granted bool
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Addr: getEnv("SERVER_ADDR", ":8080"),
		},
		Catalog: CatalogConfig{
			Backend: getEnv("CATALOG_BACKEND", CatalogBackendHTTP),
			BaseURL: getEnv("CATALOG_BASE_URL", ""),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "reeldaily"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "reeldaily"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		User: UserConfig{
			ID: getEnv("USER_ID", ""),
		},
		Notification: NotificationConfig{
			Granted: getEnvBool("NOTIFICATIONS_GRANTED", true),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.User.ID == "" {
		return fmt.Errorf("USER_ID is required")
	}

	switch c.Catalog.Backend {
	case CatalogBackendHTTP:
		if c.Catalog.BaseURL == "" {
			return fmt.Errorf("CATALOG_BASE_URL is required for the http catalog backend")
		}
	case CatalogBackendPostgres:
		if c.Postgres.Host == "" || c.Postgres.Database == "" {
			return fmt.Errorf("POSTGRES_HOST and POSTGRES_DB are required for the postgres catalog backend")
		}
	default:
		return fmt.Errorf("CATALOG_BACKEND must be %q or %q, got %q",
			CatalogBackendHTTP, CatalogBackendPostgres, c.Catalog.Backend)
	}

	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
