package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "dev-secret-change-in-production"

// Config holds every runtime setting of the API process.
type Config struct {
	Env        string
	Port       string
	ClientURL  string
	CORSOrigin string

	DBDriver    string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	DirectoryTTL  time.Duration

	SMTPHost  string
	SMTPPort  int
	EmailUser string
	EmailPass string

	StorageDriver          string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadPreset string
	S3Bucket               string
	S3Region               string
	S3Key                  string
	S3Secret               string
	S3Endpoint             string
	S3URL                  string

	PricingCatalogPath string

	LogMongoURI        string
	LogMongoDB         string
	LogMongoCollection string

	AuthRateLimitRPS   float64
	AuthRateLimitBurst int
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := &Config{
		Env:        getEnv("APP_ENV", "development"),
		Port:       getEnv("PORT", "8000"),
		ClientURL:  strings.TrimRight(getEnv("CLIENT_URL", "http://localhost:5173"), "/"),
		CORSOrigin: getEnv("CORS_ORIGINS", "*"),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", defaultJWTSecret),
		JWTTTL:    time.Duration(getInt("JWT_TTL_HOURS", 24)) * time.Hour,

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		DirectoryTTL:  time.Duration(getInt("DIRECTORY_CACHE_TTL_SECONDS", 60)) * time.Second,

		SMTPHost:  getEnv("SMTP_HOST", ""),
		SMTPPort:  getInt("SMTP_PORT", 587),
		EmailUser: getEnv("EMAIL_USER", ""),
		EmailPass: getEnv("EMAIL_PASS", ""),

		StorageDriver:          strings.ToLower(getEnv("STORAGE_DRIVER", "cloudinary")),
		CloudinaryCloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:       getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryUploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", ""),
		S3Bucket:               getEnv("S3_BUCKET", ""),
		S3Region:               getEnv("S3_REGION", "us-east-1"),
		S3Key:                  getEnv("S3_KEY", ""),
		S3Secret:               getEnv("S3_SECRET", ""),
		S3Endpoint:             getEnv("S3_ENDPOINT", ""),
		S3URL:                  strings.TrimRight(getEnv("S3_URL", ""), "/"),

		PricingCatalogPath: getEnv("PRICING_CATALOG_PATH", ""),

		LogMongoURI:        getEnv("LOG_MONGO_URI", ""),
		LogMongoDB:         getEnv("LOG_MONGO_DB", "roadside"),
		LogMongoCollection: getEnv("LOG_MONGO_COLLECTION", "audit_logs"),

		AuthRateLimitRPS:   getFloat("AUTH_RATE_LIMIT_RPS", 5),
		AuthRateLimitBurst: getInt("AUTH_RATE_LIMIT_BURST", 10),
	}

	if cfg.IsProduction() && cfg.JWTSecret == defaultJWTSecret {
		return nil, errors.New("JWT_SECRET must be set in production environment")
	}

	return cfg, nil
}

// IsProduction reports whether the process runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}
