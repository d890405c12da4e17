package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken  string
	AdminID        int64
	Environment    string
	StorageDriver  string
	DataDir        string
	DBDSN          string
	MigrationsPath string
}

func Load() (*Config, error) {
	// Load .env if present; plain environment variables otherwise.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		Environment:    os.Getenv("ENV"),
		StorageDriver:  os.Getenv("STORAGE_DRIVER"),
		DataDir:        os.Getenv("DATA_DIR"),
		DBDSN:          os.Getenv("DB_DSN"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.StorageDriver == "" {
		cfg.StorageDriver = "file"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "internal/storage/postgres/migrations"
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	rawAdmin := os.Getenv("ADMIN_ID")
	if rawAdmin == "" {
		return nil, fmt.Errorf("ADMIN_ID is required but not set")
	}
	adminID, err := strconv.ParseInt(rawAdmin, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse ADMIN_ID: %w", err)
	}
	cfg.AdminID = adminID

	if cfg.StorageDriver == "postgres" && cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required for the postgres storage driver")
	}

	return cfg, nil
}
