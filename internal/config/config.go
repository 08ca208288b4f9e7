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
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port           string
	UploadMaxBytes int

	// Database configuration
	DBType            string // mysql, mariadb, postgres, sqlite, sqlite-purego, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int
	DBLogLevel        string

	// Session configuration
	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool

	// Logging configuration
	LogLevel  string
	LogFormat string

	// Bootstrap administrator, created at startup when absent
	AdminEmail    string
	AdminPassword string
	AdminName     string

	// Object storage configuration, uploads are disabled without an endpoint
	MinioEndpoint       string
	MinioPublicEndpoint string
	MinioAccessKey      string
	MinioSecretKey      string
	MinioBucket         string
	MinioUseSSL         bool

	// Mail configuration, delivery is disabled without an api key
	SendgridAPIKey  string
	MailFromAddress string
	MailFromName    string
}

// MinJWTSecretLength is the shortest accepted HMAC key
const MinJWTSecretLength = 32

// Load loads configuration from environment variables.
// Variables from ENV_FILE (default .env) are applied first without overriding the environment.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{
		Port:                getEnv("PORT", "3000"),
		UploadMaxBytes:      getEnvAsInt("UPLOAD_MAX_BYTES", 25*1024*1024),
		DBType:              strings.ToLower(getEnv("DB_TYPE", "sqlite")),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "3306"),
		DBDatabase:          getEnv("DB_DATABASE", ""),
		DBUser:              getEnv("DB_USER", ""),
		DBPassword:          getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:   getEnvAsInt("DB_CONNECTION_LIMIT", 10),
		DBLogLevel:          getEnv("DB_LOG_LEVEL", "warn"),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		SessionTTL:          getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
		CookieSecure:        getEnvAsBool("COOKIE_SECURE", false),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "json"),
		AdminEmail:          getEnv("ADMIN_EMAIL", ""),
		AdminPassword:       getEnv("ADMIN_PASSWORD", ""),
		AdminName:           getEnv("ADMIN_NAME", "Administrator"),
		MinioEndpoint:       getEnv("MINIO_ENDPOINT", ""),
		MinioPublicEndpoint: getEnv("MINIO_PUBLIC_ENDPOINT", ""),
		MinioAccessKey:      getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:      getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:         getEnv("MINIO_BUCKET", "lookout"),
		MinioUseSSL:         getEnvAsBool("MINIO_USE_SSL", false),
		SendgridAPIKey:      getEnv("SENDGRID_API_KEY", ""),
		MailFromAddress:     getEnv("MAIL_FROM_ADDRESS", ""),
		MailFromName:        getEnv("MAIL_FROM_NAME", "Lookout"),
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d bytes", MinJWTSecretLength)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.DBConnectionLimit < 1 {
		return nil, fmt.Errorf("DB_CONNECTION_LIMIT must be at least 1")
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return nil, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	if cfg.SendgridAPIKey != "" && cfg.MailFromAddress == "" {
		return nil, fmt.Errorf("MAIL_FROM_ADDRESS is required when SENDGRID_API_KEY is set")
	}

	return cfg, nil
}

// StorageEnabled reports whether an object store is configured
func (c *Config) StorageEnabled() bool {
	return c.MinioEndpoint != ""
}

// MailEnabled reports whether mail delivery is configured
func (c *Config) MailEnabled() bool {
	return c.SendgridAPIKey != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
