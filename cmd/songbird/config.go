package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains application-wide settings sourced from the environment.
type Config struct {
	DatabaseURL      string
	DBConnectTimeout time.Duration
	Addr             string
	AllowedOrigins   []string
	JWTSecret        string
	TokenTTL         time.Duration
	BcryptCost       int
	UploadDir        string
	LogLevel         string
	LogFormat        string
}

func loadConfig() (Config, error) {
	_ = godotenv.Load("config/local.env")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return Config{}, errors.New("DATABASE_URL env var is required")
	}

	secret := os.Getenv("JWT_SECRET")
	if len(secret) < 16 {
		return Config{}, errors.New("JWT_SECRET env var is required and must be at least 16 characters")
	}

	ttl, err := time.ParseDuration(envOrDefault("TOKEN_TTL", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	connectTimeout, err := time.ParseDuration(envOrDefault("DB_CONNECT_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_CONNECT_TIMEOUT: %w", err)
	}

	cost, err := strconv.Atoi(envOrDefault("BCRYPT_COST", "10"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	addr := fmt.Sprintf(":%s", envOrDefault("PORT", "8000"))
	origins := parseAllowedOrigins(envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))

	return Config{
		DatabaseURL:      dsn,
		DBConnectTimeout: connectTimeout,
		Addr:             addr,
		AllowedOrigins:   origins,
		JWTSecret:        secret,
		TokenTTL:         ttl,
		BcryptCost:       cost,
		UploadDir:        envOrDefault("UPLOAD_DIR", "uploads"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseAllowedOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	var origins []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
