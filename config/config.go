package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Session  SessionConfig
	Snapshot SnapshotConfig
	Redis    RedisConfig
	Upstream UpstreamConfig
	Catalog  CatalogConfig
	Checkout CheckoutConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

// SessionConfig controls the shopper session tokens minted by this service.
type SessionConfig struct {
	Secret      string
	TokenExpiry time.Duration
}

// SnapshotConfig configures the cart snapshot store. Driver is either
// "postgres" or "sqlite"; sqlite keeps snapshots in a local file for
// single-node deployments.
type SnapshotConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string // sqlite only
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// UpstreamConfig points at the remote Frecha fulfillment/auth backend.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

type CatalogConfig struct {
	RefreshSchedule string
}

type CheckoutConfig struct {
	MinPasswordLength int
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Session: SessionConfig{
			Secret:      getEnv("SESSION_SECRET", "your-secret-key"),
			TokenExpiry: parseDuration(getEnv("SESSION_TOKEN_EXPIRY", "720h")),
		},
		Snapshot: SnapshotConfig{
			Driver:   getEnv("SNAPSHOT_DRIVER", "postgres"),
			Host:     getEnv("SNAPSHOT_DB_HOST", "localhost"),
			Port:     getEnv("SNAPSHOT_DB_PORT", "5432"),
			User:     getEnv("SNAPSHOT_DB_USER", "admin"),
			Password: getEnv("SNAPSHOT_DB_PASSWORD", "1234"),
			DBName:   getEnv("SNAPSHOT_DB_NAME", "storefront"),
			SSLMode:  getEnv("SNAPSHOT_DB_SSLMODE", "disable"),
			Path:     getEnv("SNAPSHOT_SQLITE_PATH", "storefront.db"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Upstream: UpstreamConfig{
			BaseURL: getEnv("UPSTREAM_BASE_URL", "https://frecha-iotech.onrender.com/api"),
			Timeout: parseDuration(getEnv("UPSTREAM_TIMEOUT", "30s")),
		},
		Catalog: CatalogConfig{
			RefreshSchedule: getEnv("CATALOG_REFRESH_SCHEDULE", "@every 10m"),
		},
		Checkout: CheckoutConfig{
			MinPasswordLength: parseInt(getEnv("CHECKOUT_MIN_PASSWORD_LENGTH", "6"), 6),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
	}

	return config, nil
}

func (c *SnapshotConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.Path
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default 15m", s)
		return 15 * time.Minute
	}
	return duration
}

func parseInt(s string, defaultValue int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for i := 0; i < len(s); {
		end := i
		for end < len(s) && s[end] != ',' {
			end++
		}
		result = append(result, s[i:end])
		i = end + 1
	}
	return result
}
