package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	ServerPort  int
	StoreDriver string
	Mongo       MongoConfig
	SQLitePath  string

	JWTSecret string
	JWTIssuer string
	JWTExpiry time.Duration

	LogLevel  string
	LogFormat string

	GraphiQL           bool
	CORSAllowedOrigins []string

	// Cron spec for the back-reference reconciler. Empty disables it.
	ReconcileSchedule string
}

// MongoConfig describes where the document store lives.
type MongoConfig struct {
	User     string
	Password string
	Database string
	Host     string
	Scheme   string
}

// Load loads configuration from environment variables or sets defaults.
// Every missing required key is reported in the returned error.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "4000")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	graphiql, err := strconv.ParseBool(getEnv("GRAPHIQL", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid GRAPHIQL: %w", err)
	}

	expiry, err := time.ParseDuration(getEnv("JWT_EXPIRY", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY: %w", err)
	}

	cfg := &Config{
		ServerPort:  port,
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		Mongo: MongoConfig{
			User:     os.Getenv("MONGO_USER"),
			Password: os.Getenv("MONGO_PASSWORD"),
			Database: os.Getenv("MONGO_DB"),
			Host:     getEnv("MONGO_HOST", "cluster0.mongodb.net"),
			Scheme:   getEnv("MONGO_SCHEME", "mongodb+srv"),
		},
		SQLitePath:         getEnv("SQLITE_PATH", "./events.db"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTIssuer:          getEnv("JWT_ISSUER", "events-api"),
		JWTExpiry:          expiry,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "console"),
		GraphiQL:           graphiql,
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		ReconcileSchedule:  getEnv("RECONCILE_SCHEDULE", "@every 5m"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverMongo:
		for key, value := range map[string]string{
			"MONGO_USER":     c.Mongo.User,
			"MONGO_PASSWORD": c.Mongo.Password,
			"MONGO_DB":       c.Mongo.Database,
		} {
			if value == "" {
				errs = append(errs, fmt.Errorf("%s is required", key))
			}
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}

	return errors.Join(errs...)
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
