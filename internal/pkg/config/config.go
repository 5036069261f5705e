package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	SeedDemo bool   `env:"SEED_DEMO_DATA, default=false"`

	Auth      AuthConfig
	Storage   StorageConfig
	Upload    UploadConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Cleanup   CleanupConfig
}

type AuthConfig struct {
	AccessSecret  string        `env:"JWT_ACCESS_SECRET, required"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET, required"`
	AccessTTL     time.Duration `env:"JWT_ACCESS_TTL,  default=15m"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_TTL, default=168h"`
	BcryptCost    int           `env:"BCRYPT_COST,     default=10"`
}

type StorageConfig struct {
	Driver            string `env:"STORAGE_DRIVER,     default=local"`
	LocalPath         string `env:"STORAGE_LOCAL_PATH, default=./uploads"`
	S3Bucket          string `env:"S3_BUCKET"`
	S3Region          string `env:"S3_REGION, default=us-east-1"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3PathStyle       bool   `env:"S3_PATH_STYLE, default=false"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
}

type UploadConfig struct {
	MaxBytes         int64    `env:"UPLOAD_MAX_BYTES, default=10485760"`
	AllowedMimeTypes []string `env:"UPLOAD_ALLOWED_MIME_TYPES, default=application/pdf,application/msword,application/vnd.openxmlformats-officedocument.wordprocessingml.document,text/plain,image/jpeg,image/png"`
}

// RedisConfig leaves rate limiting off when Addr is empty.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type RateLimitConfig struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS, default=60"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW,   default=1m"`
}

type CleanupConfig struct {
	Workers int `env:"CLEANUP_WORKERS, default=4"`
}

// IsDevelopment enables pretty console logs.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return errors.New("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Auth.AccessSecret == c.Auth.RefreshSecret {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if c.Upload.MaxBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}
