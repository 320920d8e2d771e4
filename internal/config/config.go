package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every configuration parameter of the application. It is built
// once at startup and passed into constructors; no component reads the
// environment after that.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL,required"`
	ServerPort     string        `env:"SERVER_PORT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`

	// MaxUploadBytes caps direct photo uploads. The public FAQ promises 15 MB.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES"`

	// CronSecret is the bearer shared secret guarding the scheduled
	// collection endpoint.
	CronSecret string `env:"CRON_SECRET,required"`

	// CacheAddr points at the Valkey instance holding cached views. Empty
	// disables invalidation (a no-op invalidator is installed).
	CacheAddr string `env:"CACHE_ADDR"`

	// S3-compatible object storage (MinIO in development).
	S3Endpoint        string `env:"S3_ENDPOINT,required"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID,required"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY,required"`
	S3BucketName      string `env:"S3_BUCKET_NAME,required"`
	S3Region          string `env:"S3_REGION,required"`
	S3UseSSL          bool   `env:"S3_USE_SSL"`
	// S3PublicBaseURL is the externally reachable base for stored media
	// (a CDN or the MinIO endpoint itself).
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL,required"`

	// Instagram Graph API hashtag harvesting.
	InstagramAccessToken    string `env:"INSTAGRAM_ACCESS_TOKEN,required"`
	InstagramBusinessUserID string `env:"INSTAGRAM_BUSINESS_USER_ID,required"`

	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL,required"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"collection_queue"`
	}
}

// LoadConfig loads configuration from environment variables. In development
// a .env file is picked up when present.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("loading .env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration from environment: %w", err)
	}

	// Defaults for the optional knobs.
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 15 << 20
	}

	return &cfg, nil
}
