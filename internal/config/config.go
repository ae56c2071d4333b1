package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJwtSecret = "dev-only-insecure-secret"

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Storage  StorageConfig
	SMTP     SMTPConfig
	Events   EventsConfig
	Tracing  TracingConfig
	Seed     SeedConfig
}

type AppConfig struct {
	Name               string
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	DefaultTimezone    string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	BodyLimitMB        int
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type DatabaseConfig struct {
	Driver      string // "postgres" or "memory"
	Connection  string
	AutoMigrate bool
}

type AuthConfig struct {
	JwtSecret string
}

type StorageConfig struct {
	UploadDir    string
	PublicPrefix string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.Email != ""
}

type EventsConfig struct {
	NatsURL string // empty disables the NATS relay
	Topic   string
}

type TracingConfig struct {
	Enabled      bool
	OTLPEndpoint string
}

type SeedConfig struct {
	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	cfg := &Config{
		App: AppConfig{
			Name:               getEnv("APP_NAME", "airicepest-backend"),
			Port:               getEnv("APP_PORT", "4000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			DefaultTimezone:    getEnv("DEFAULT_TIMEZONE", "Asia/Shanghai"),
			ReadTimeout:        time.Duration(getEnvAsInt("HTTP_READ_TIMEOUT_SECONDS", 15)) * time.Second,
			WriteTimeout:       time.Duration(getEnvAsInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)) * time.Second,
			BodyLimitMB:        getEnvAsInt("HTTP_BODY_LIMIT_MB", 16),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Connection:  getEnv("DB_CONNECTION_STRING", ""),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Storage: StorageConfig{
			UploadDir:    getEnv("UPLOAD_DIR", "static/uploads"),
			PublicPrefix: getEnv("UPLOAD_PUBLIC_PREFIX", "/static/uploads"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "AI Rice Pest"),
		},
		Events: EventsConfig{
			NatsURL: getEnv("NATS_URL", ""),
			Topic:   getEnv("EVENTS_TOPIC", "domain_events"),
		},
		Tracing: TracingConfig{
			Enabled:      getEnvAsBool("OTEL_ENABLED", false),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Seed: SeedConfig{
			AdminUsername: getEnv("SEED_ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@example.com"),
		},
	}

	if cfg.Auth.JwtSecret == "" {
		if cfg.App.IsProduction() {
			log.Fatal("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET not set, using development secret")
		cfg.Auth.JwtSecret = devJwtSecret
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
