package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Blob     BlobConfig
	Mirror   MirrorConfig
	Notify   NotifyConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `envconfig:"SERVER_PORT" default:"8080"`
}

// DatabaseConfig holds the PostgreSQL recipe store configuration.
type DatabaseConfig struct {
	Host            string `envconfig:"DB_HOST" default:"localhost"`
	Port            int    `envconfig:"DB_PORT" default:"5432"`
	User            string `envconfig:"DB_USER" default:"postgres"`
	Password        string `envconfig:"DB_PASSWORD" default:""`
	Database        string `envconfig:"DB_NAME" default:"fridgekeep"`
	MaxConnections  int    `envconfig:"DB_MAX_CONNECTIONS" default:"25"`
	MinConnections  int    `envconfig:"DB_MIN_CONNECTIONS" default:"5"`
	MaxConnLifetime int    `envconfig:"DB_MAX_CONN_LIFETIME" default:"300"` // seconds
}

// BlobConfig selects the local snapshot backend.
type BlobConfig struct {
	Type       string `envconfig:"BLOB_STORE" default:"sqlite"` // sqlite, redis or memory
	SQLitePath string `envconfig:"BLOB_SQLITE_PATH" default:"./data/fridgekeep.db"`

	RedisAddr     string `envconfig:"BLOB_REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"BLOB_REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"BLOB_REDIS_DB" default:"0"`
	RedisPrefix   string `envconfig:"BLOB_REDIS_PREFIX" default:"fridgekeep:"`
}

// MirrorConfig holds the S3 snapshot mirror configuration. When disabled the
// service runs local-only and every remote-dependent path short-circuits.
type MirrorConfig struct {
	Enabled bool   `envconfig:"MIRROR_ENABLED" default:"false"`
	Bucket  string `envconfig:"MIRROR_BUCKET" default:""`
	Region  string `envconfig:"MIRROR_REGION" default:"us-east-1"`
	Prefix  string `envconfig:"MIRROR_PREFIX" default:"snapshots/"`
}

// NotifyConfig holds push notification configuration. Without FCM credentials
// expiry alerts are only logged.
type NotifyConfig struct {
	FCMCredentialsFile   string `envconfig:"FCM_CREDENTIALS_FILE" default:""`
	FCMCredentialsBase64 string `envconfig:"FCM_CREDENTIALS_BASE64" default:""`
	DeviceToken          string `envconfig:"FCM_DEVICE_TOKEN" default:""`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"` // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string `envconfig:"API_KEY" default:""`
}

// Load loads configuration from the environment, reading a .env file first
// if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	switch c.Blob.Type {
	case "sqlite":
		if c.Blob.SQLitePath == "" {
			return fmt.Errorf("sqlite blob store requires a path")
		}
	case "redis":
		if c.Blob.RedisAddr == "" {
			return fmt.Errorf("redis blob store requires an address")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid blob store type: %s (must be sqlite, redis or memory)", c.Blob.Type)
	}

	if c.Mirror.Enabled {
		if c.Mirror.Bucket == "" {
			return fmt.Errorf("mirror bucket is required when the mirror is enabled")
		}
		if c.Mirror.Region == "" {
			return fmt.Errorf("mirror region is required when the mirror is enabled")
		}
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
