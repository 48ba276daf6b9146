package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	if err := os.Setenv("SERVER_PORT", "9090"); err != nil {
		t.Fatalf("Failed to set SERVER_PORT: %v", err)
	}
	if err := os.Setenv("POSTGRES_HOST", "testhost"); err != nil {
		t.Fatalf("Failed to set POSTGRES_HOST: %v", err)
	}
	if err := os.Setenv("INGEST_REQUEST_DELAY", "2s"); err != nil {
		t.Fatalf("Failed to set INGEST_REQUEST_DELAY: %v", err)
	}
	if err := os.Setenv("INGEST_FILTERED", "true"); err != nil {
		t.Fatalf("Failed to set INGEST_FILTERED: %v", err)
	}
	defer func() {
		_ = os.Unsetenv("SERVER_PORT")
		_ = os.Unsetenv("POSTGRES_HOST")
		_ = os.Unsetenv("INGEST_REQUEST_DELAY")
		_ = os.Unsetenv("INGEST_FILTERED")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %v, want %v", cfg.Server.Port, "9090")
	}
	if cfg.Postgres.Host != "testhost" {
		t.Errorf("Postgres.Host = %v, want %v", cfg.Postgres.Host, "testhost")
	}
	if cfg.Ingest.RequestDelay != 2*time.Second {
		t.Errorf("Ingest.RequestDelay = %v, want %v", cfg.Ingest.RequestDelay, 2*time.Second)
	}
	if !cfg.Ingest.Filtered {
		t.Errorf("Ingest.Filtered = false, want true")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Ingest.Filtered {
		t.Errorf("Ingest.Filtered default = true, want false")
	}
	if cfg.Ingest.MaxParallelProviders < 1 {
		t.Errorf("Ingest.MaxParallelProviders = %d, want >= 1", cfg.Ingest.MaxParallelProviders)
	}
	if cfg.Ingest.DescriptionLimit != 16*1024 {
		t.Errorf("Ingest.DescriptionLimit = %d, want %d", cfg.Ingest.DescriptionLimit, 16*1024)
	}
}

func TestDatabaseURL(t *testing.T) {
	pg := PostgresConfig{
		Host:     "dbhost",
		Port:     "5433",
		Database: "jobs",
		User:     "u",
		Password: "p",
	}
	want := "postgres://u:p@dbhost:5433/jobs?sslmode=disable"
	if got := pg.DatabaseURL(); got != want {
		t.Errorf("DatabaseURL() = %v, want %v", got, want)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		want         bool
	}{
		{"true value", "true", false, true},
		{"one value", "1", false, true},
		{"false value", "false", true, false},
		{"invalid falls back", "maybe", true, true},
		{"unset falls back", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				if err := os.Setenv("TEST_BOOL_KEY", tt.envValue); err != nil {
					t.Fatalf("Failed to set env var: %v", err)
				}
				defer func() {
					_ = os.Unsetenv("TEST_BOOL_KEY")
				}()
			}

			if got := getEnvAsBool("TEST_BOOL_KEY", tt.defaultValue); got != tt.want {
				t.Errorf("getEnvAsBool() = %v, want %v", got, tt.want)
			}
		})
	}
}
