package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN          string
	Environment    string
	MigrationsPath string
	MetricsAddr    string
}

// Load reads configuration from the environment, after loading an optional
// .env file. DB_DSN is required; everything else has a default.
func Load() (*Config, error) {
	// Missing .env is fine, plain environment variables win in deployment.
	_ = godotenv.Load(".env")

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    os.Getenv("ENV"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}
