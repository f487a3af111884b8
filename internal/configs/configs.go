package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	AppURL                 string
	DatabaseDriver         string
	DatabaseDSN            string
	RateLimit              int
	RedisAddr              string
	RedisRateLimitPrefix   string
	JWTSecret              string
	AuthDisabled           bool
	ListDefaultLimit       int
	ListMaxLimit           int
	ShutdownTimeoutSeconds int
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDriver:         strings.ToLower(getEnv("DATABASE_DRIVER", DriverSQLite)),
		DatabaseDSN:            getEnv("DATABASE_DSN", "complaints.db"),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		RedisAddr:              getEnv("REDIS_ADDR", ""),
		RedisRateLimitPrefix:   getEnv("REDIS_RATE_LIMIT_PREFIX", "complaints:ratelimit:"),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		AuthDisabled:           getEnvAsBool("AUTH_DISABLED", false),
		ListDefaultLimit:       getEnvAsInt("LIST_DEFAULT_LIMIT", 10),
		ListMaxLimit:           getEnvAsInt("LIST_MAX_LIMIT", 100),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	return cfg
}

// LoadDatabase reads only the settings needed to open the database, for
// commands that never serve HTTP.
func LoadDatabase() Config {
	cfg := Config{
		DatabaseDriver: strings.ToLower(getEnv("DATABASE_DRIVER", DriverSQLite)),
		DatabaseDSN:    getEnv("DATABASE_DSN", "complaints.db"),
	}

	if err := cfg.validateDatabase(); err != nil {
		log.Fatal(err)
	}
	return cfg
}

func (cfg Config) Validate() error {
	if cfg.AppURL == "" {
		return fmt.Errorf("APP_HOST and APP_PORT must not be empty")
	}
	if err := cfg.validateDatabase(); err != nil {
		return err
	}
	if cfg.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.JWTSecret == "" && !cfg.AuthDisabled {
		return fmt.Errorf("JWT_SECRET must be set unless AUTH_DISABLED=true")
	}
	if cfg.ListDefaultLimit <= 0 {
		return fmt.Errorf("LIST_DEFAULT_LIMIT must be greater than 0")
	}
	if cfg.ListMaxLimit < cfg.ListDefaultLimit {
		return fmt.Errorf("LIST_MAX_LIMIT must be at least LIST_DEFAULT_LIMIT")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	return nil
}

func (cfg Config) validateDatabase() error {
	switch cfg.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DATABASE_DRIVER must be %q or %q", DriverSQLite, DriverPostgres)
	}
	if cfg.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN must not be empty")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Fatalf("invalid boolean value for %s", key)
		}
		return b
	}
	return defaultVal
}
