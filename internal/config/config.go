// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pkordes/carpool/internal/domain"
	"github.com/pkordes/carpool/internal/repo"
)

// DefaultMaxBodyBytes caps request bodies at 1 MiB.
const DefaultMaxBodyBytes int64 = 1 << 20

// Config holds all configuration values for the API server and the CLI.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// LogFile, when set, receives a rotated copy of every log line.
	LogFile string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreDriver selects where rides are persisted: repo.DriverFile (default)
	// or repo.DriverPostgres.
	StoreDriver string

	// StorePath is the JSON file used by the file driver. Defaults to "caronas.json".
	StorePath string

	// DatabaseURL is the Postgres connection string. Required when StoreDriver is "postgres".
	DatabaseURL string

	EventDestination string
	EventDate        string

	// MaxBodyBytes limits request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Event returns the event every ride in this deployment heads to.
func (c Config) Event() domain.EventInfo {
	return domain.EventInfo{Destination: c.EventDestination, Date: c.EventDate}
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is read first when present; variables
// already set in the environment take precedence over it.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config.Load: reading .env: %w", err)
	}

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          os.Getenv("LOG_FILE"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", repo.DriverFile)),
		StorePath:        getEnv("STORE_PATH", "caronas.json"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		EventDestination: getEnv("EVENT_DESTINATION", domain.DefaultEventDestination),
		EventDate:        getEnv("EVENT_DATE", domain.DefaultEventDate),
	}

	maxBody, err := getInt64("MAX_BODY_BYTES", DefaultMaxBodyBytes)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxBodyBytes = maxBody

	switch cfg.StoreDriver {
	case repo.DriverFile:
	case repo.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("required environment variables not set: DATABASE_URL (STORE_DRIVER=%s)", repo.DriverPostgres)
		}
	default:
		return Config{}, fmt.Errorf("invalid STORE_DRIVER %q: want %q or %q", cfg.StoreDriver, repo.DriverFile, repo.DriverPostgres)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getInt64 parses a positive integer variable, falling back when unset.
func getInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: want a positive integer", key, v)
	}
	return n, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
