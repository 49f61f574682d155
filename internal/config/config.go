package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
	Share    ShareConfig
	Draft    DraftConfig
	Worker   WorkerConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ShareConfig drives shareable-link and calendar-link composition.
type ShareConfig struct {
	// PublicBaseURL is the origin guests open invitation links against,
	// e.g. https://invites.example.com
	PublicBaseURL string
	// CalendarTZ is passed as the ctz parameter on external calendar links.
	CalendarTZ string
}

// DraftConfig bounds the authoring-session layer.
type DraftConfig struct {
	// TTL applies to in-flight sessions and to the redis copy of a
	// published draft.
	TTL time.Duration
	// MaxPayloadBytes caps the serialized size of a published draft.
	// Drafts embed data-URL media, so this is the real quota guard.
	MaxPayloadBytes int
}

type WorkerConfig struct {
	Concurrency int
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Invitation API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "invitations"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "invitations"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Share: ShareConfig{
			PublicBaseURL: getEnv("SHARE_BASE_URL", "http://localhost:3000"),
			CalendarTZ:    getEnv("SHARE_CALENDAR_TZ", "Asia/Kolkata"),
		},
		Draft: DraftConfig{
			TTL:             getEnvDuration("DRAFT_TTL", 24*time.Hour),
			MaxPayloadBytes: getEnvInt("DRAFT_MAX_PAYLOAD_BYTES", 24<<20),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvInt("WORKER_CONCURRENCY", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks critical config values.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.MinIO.SecretKey == "minioadmin" {
			return fmt.Errorf("MINIO_SECRET_KEY must be set in production")
		}
	}
	if c.Draft.MaxPayloadBytes <= 0 {
		return fmt.Errorf("DRAFT_MAX_PAYLOAD_BYTES must be positive")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
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

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
