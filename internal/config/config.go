// Package config provides configuration for the job ingestion service.
// Values come from environment variables, optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Ingest   IngestConfig
	Logging  LoggingConfig
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Host string
	Port string
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// IngestConfig holds the knobs of the ingestion run loop.
type IngestConfig struct {
	// Filtered keeps only role-matched postings at ingestion time. The
	// default ingests everything and leaves role filtering to readers.
	Filtered bool
	// RequestDelay throttles successive requests against the same provider.
	RequestDelay time.Duration
	// FetchTimeout bounds a single provider HTTP request.
	FetchTimeout time.Duration
	// MaxParallelProviders bounds cross-provider fan-out; tenants within a
	// provider always run sequentially.
	MaxParallelProviders int
	// ScrapeInterval is how often the scheduler triggers a full run.
	ScrapeInterval time.Duration
	// StaleAfter is the heartbeat freshness threshold.
	StaleAfter time.Duration
	// DescriptionLimit bounds stored description text, in bytes.
	DescriptionLimit int
	// CronSecret guards the run-trigger endpoints; empty disables the check.
	CronSecret string
	// SiteCacheTTL bounds how long a resolved Workday career site is reused.
	SiteCacheTTL time.Duration
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from a .env file and environment variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional - environment variables can be set directly
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Postgres: PostgresConfig{
			Host:           getEnv("POSTGRES_HOST", "localhost"),
			Port:           getEnv("POSTGRES_PORT", "5432"),
			Database:       getEnv("POSTGRES_DB", "job_radar"),
			User:           getEnv("POSTGRES_USER", "radar"),
			Password:       getEnv("POSTGRES_PASSWORD", ""),
			MaxConnections: getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 20),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Ingest: IngestConfig{
			Filtered:             getEnvAsBool("INGEST_FILTERED", false),
			RequestDelay:         getEnvAsDuration("INGEST_REQUEST_DELAY", 500*time.Millisecond),
			FetchTimeout:         getEnvAsDuration("INGEST_FETCH_TIMEOUT", 20*time.Second),
			MaxParallelProviders: getEnvAsInt("INGEST_MAX_PARALLEL_PROVIDERS", 1),
			ScrapeInterval:       getEnvAsDuration("INGEST_SCRAPE_INTERVAL", 6*time.Hour),
			StaleAfter:           getEnvAsDuration("INGEST_STALE_AFTER", 12*time.Hour),
			DescriptionLimit:     getEnvAsInt("INGEST_DESCRIPTION_LIMIT", 16*1024),
			CronSecret:           getEnv("CRON_SECRET", ""),
			SiteCacheTTL:         getEnvAsDuration("INGEST_SITE_CACHE_TTL", 7*24*time.Hour),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if cfg.Ingest.MaxParallelProviders < 1 {
		cfg.Ingest.MaxParallelProviders = 1
	}

	return cfg, nil
}

// DatabaseURL renders the Postgres config as a connection URL, used by the
// migration runner.
func (c *PostgresConfig) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a boolean with a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
