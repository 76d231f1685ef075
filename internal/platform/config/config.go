package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	StoreDriver string

	// JWTSecret verifies HS256 bearer tokens. Empty disables authentication
	// and every request is anonymous.
	JWTSecret string

	IndexLimit  int
	SeedFile    string
	AutoMigrate bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment values win.
func Load() (Config, error) {
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "pollhub"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	driver := strings.ToLower(strings.TrimSpace(os.Getenv("POLLS_STORE_DRIVER")))
	if driver == "" {
		driver = StoreDriverMemory
		if dsn != "" {
			driver = StoreDriverPostgres
		}
	}
	switch driver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if dsn == "" {
			return Config{}, fmt.Errorf("POSTGRES_DSN is required for store driver %q", driver)
		}
	default:
		return Config{}, fmt.Errorf("unsupported store driver %q", driver)
	}

	indexLimit, err := envInt("POLLS_INDEX_LIMIT", 5)
	if err != nil {
		return Config{}, err
	}
	if indexLimit <= 0 {
		return Config{}, fmt.Errorf("POLLS_INDEX_LIMIT must be positive, got %d", indexLimit)
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: dsn,
		StoreDriver: driver,
		JWTSecret:   os.Getenv("JWT_SECRET"),
		IndexLimit:  indexLimit,
		SeedFile:    strings.TrimSpace(os.Getenv("POLLS_SEED_FILE")),
		AutoMigrate: envBool("POLLS_AUTO_MIGRATE", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return value, nil
}
