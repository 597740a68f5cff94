// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tair/techstore/pkg/database"
	"github.com/tair/techstore/pkg/tracing"
)

// Config is the server configuration
type Config struct {
	HTTPPort    string
	GRPCPort    string
	Environment string
	LogLevel    string
	Version     string

	Tracing  tracing.Config
	Database database.Config

	JWTSecret    string
	JWTExpiresIn time.Duration

	AdminEmail    string
	AdminPassword string

	KafkaBrokers    []string
	KafkaAuditGroup string

	RedisAddr      string
	LoginRateLimit int

	CORSOrigins []string
	SeedCatalog bool
}

// IsDevelopment reports whether console logging should be used
func (c Config) IsDevelopment() bool {
	return c.Environment != "production"
}

// Load reads an optional .env file and then the environment
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Config{
		HTTPPort:    getEnv("HTTP_PORT", "1105"),
		GRPCPort:    getEnv("GRPC_PORT", ""),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Version:     getEnv("SERVICE_VERSION", "1.0.0"),
		Tracing: tracing.Config{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "techstore"),
			ServiceVersion: getEnv("SERVICE_VERSION", "1.0.0"),
			Exporter:       getEnv("TRACING_EXPORTER", tracing.ExporterNone),
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
			OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		},
		Database: database.Config{
			Driver:   getEnv("DB_DRIVER", database.DriverSQLite),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", ""),
			User:     getEnv("DB_USER", "techstore"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "techstore"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "techstore.db"),
		},
		JWTSecret:       getEnv("JWT_SECRET", ""),
		AdminEmail:      getEnv("ADMIN_EMAIL", ""),
		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		KafkaBrokers:    splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaAuditGroup: getEnv("KAFKA_AUDIT_GROUP", "techstore-audit"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.JWTExpiresIn, err = time.ParseDuration(getEnv("JWT_EXPIRES_IN", "24h")); err != nil {
		return Config{}, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
	}
	if cfg.LoginRateLimit, err = strconv.Atoi(getEnv("LOGIN_RATE_LIMIT", "10")); err != nil || cfg.LoginRateLimit < 1 {
		return Config{}, fmt.Errorf("invalid LOGIN_RATE_LIMIT: must be a positive integer")
	}
	if cfg.SeedCatalog, err = strconv.ParseBool(getEnv("SEED_CATALOG", "false")); err != nil {
		return Config{}, fmt.Errorf("invalid SEED_CATALOG: %w", err)
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return Config{}, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "techstore-dev-secret"
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
