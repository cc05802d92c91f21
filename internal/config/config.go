package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Webhooks  WebhookConfig   `mapstructure:"webhooks"`
	FCM       FCMConfig       `mapstructure:"fcm"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Challenge ChallengeConfig `mapstructure:"challenge"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port             string `mapstructure:"port"`
	Mode             string `mapstructure:"mode"`
	AdminSecret      string `mapstructure:"admin_secret"`
	SchedulerEnabled bool   `mapstructure:"scheduler_enabled"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URL    string `mapstructure:"url"`
}

type AuthConfig struct {
	Mode           string `mapstructure:"mode"`
	ClerkSecretKey string `mapstructure:"clerk_secret_key"`
	LocalJWTSecret string `mapstructure:"local_jwt_secret"`
}

type WebhookConfig struct {
	ClerkSecret  string `mapstructure:"clerk_secret"`
	StripeSecret string `mapstructure:"stripe_secret"`
}

type FCMConfig struct {
	ServiceAccountJSON string `mapstructure:"service_account_json"`
	CredentialsFile    string `mapstructure:"credentials_file"`
}

type StorageConfig struct {
	MinioEndpoint  string `mapstructure:"minio_endpoint"`
	MinioAccessKey string `mapstructure:"minio_access_key"`
	MinioSecretKey string `mapstructure:"minio_secret_key"`
	MinioBucket    string `mapstructure:"minio_bucket"`
	MinioUseSSL    bool   `mapstructure:"minio_use_ssl"`
}

type ChallengeConfig struct {
	Timezone  string `mapstructure:"timezone"`
	TrialDays int    `mapstructure:"trial_days"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"rps"`
	Burst             int     `mapstructure:"burst"`
}

type MetricsConfig struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

// Location resolves the challenge timezone. Load validates it, so the
// fallback only triggers for hand-built configs.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Challenge.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) TrialPeriod() time.Duration {
	return time.Duration(c.Challenge.TrialDays) * 24 * time.Hour
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3333")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.scheduler_enabled", true)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("auth.mode", "clerk")
	v.SetDefault("challenge.timezone", "America/New_York")
	v.SetDefault("challenge.trial_days", 7)
	v.SetDefault("rate_limit.rps", 5.0)
	v.SetDefault("rate_limit.burst", 30)
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("storage.minio_bucket", "art-spark-submissions")
}

func bindEnv(v *viper.Viper) {
	bindings := map[string]string{
		"server.port":                  "PORT",
		"server.mode":                  "SERVER_MODE",
		"server.admin_secret":          "ADMIN_SECRET",
		"server.scheduler_enabled":     "SCHEDULER_ENABLED",
		"database.driver":              "STORE_DRIVER",
		"database.url":                 "DATABASE_URL",
		"auth.mode":                    "AUTH_MODE",
		"auth.clerk_secret_key":        "CLERK_SECRET_KEY",
		"auth.local_jwt_secret":        "LOCAL_JWT_SECRET",
		"webhooks.clerk_secret":        "CLERK_WEBHOOK_SECRET",
		"webhooks.stripe_secret":       "STRIPE_WEBHOOK_SECRET",
		"fcm.service_account_json":     "FCM_SERVICE_ACCOUNT_JSON",
		"fcm.credentials_file":         "FCM_CREDENTIALS_FILE",
		"storage.minio_endpoint":       "MINIO_ENDPOINT",
		"storage.minio_access_key":     "MINIO_ACCESS_KEY",
		"storage.minio_secret_key":     "MINIO_SECRET_KEY",
		"storage.minio_bucket":         "MINIO_BUCKET",
		"storage.minio_use_ssl":        "MINIO_USE_SSL",
		"challenge.timezone":           "CHALLENGE_TIMEZONE",
		"challenge.trial_days":         "TRIAL_DAYS",
		"rate_limit.rps":               "RATE_LIMIT_RPS",
		"rate_limit.burst":             "RATE_LIMIT_BURST",
		"metrics.user":                 "METRICS_USER",
		"metrics.password":             "METRICS_PASS",
		"log.file":                     "LOG_FILE",
	}
	for key, env := range bindings {
		v.BindEnv(key, env)
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Database.Driver)
	}

	switch strings.ToLower(c.Auth.Mode) {
	case "clerk":
		if c.Auth.ClerkSecretKey == "" {
			return fmt.Errorf("CLERK_SECRET_KEY environment variable is not set")
		}
	case "local":
		if c.Auth.LocalJWTSecret == "" {
			return fmt.Errorf("LOCAL_JWT_SECRET environment variable is not set")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode)
	}

	if _, err := time.LoadLocation(c.Challenge.Timezone); err != nil {
		return fmt.Errorf("invalid CHALLENGE_TIMEZONE %q: %w", c.Challenge.Timezone, err)
	}
	if c.Challenge.TrialDays < 0 {
		return fmt.Errorf("TRIAL_DAYS must not be negative")
	}
	return nil
}
