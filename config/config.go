package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendSQL  = "sql"
	BackendFile = "file"

	DefaultDatabaseURL = "file:./data/atlantis.db"
	DefaultDataFile    = "./data/diagrams.json"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Security SecurityConfig
	Jobs     JobsConfig
	Backup   BackupConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

type StorageConfig struct {
	Backend     string
	DatabaseURL string
	Driver      string
	MaxConns    int
	AutoMigrate bool
	DataFile    string
}

type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

type SecurityConfig struct {
	EnableAPIAccess bool
	SecureCookies   bool
}

type JobsConfig struct {
	BackfillSchedule string
	BackupSchedule   string
}

type BackupConfig struct {
	Dir      string
	Keep     int
	S3Bucket string
	S3Prefix string
	Region   string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func (a AppConfig) IsProduction() bool { return a.Environment == "production" }

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	env := getEnv("APP_ENV", "development")
	prod := env == "production"

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 10),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
		Storage: StorageConfig{
			Backend:     getEnv("STORAGE_BACKEND", BackendSQL),
			DatabaseURL: DatabaseURL(),
			Driver:      getEnv("DB_DRIVER", "pgx"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 10),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", !prod),
			DataFile:    getEnv("DATA_FILE", DefaultDataFile),
		},
		Cache: CacheFromEnv(),
		Security: SecurityConfig{
			EnableAPIAccess: getEnvAsBool("ENABLE_API_ACCESS", false),
			SecureCookies:   prod,
		},
		Jobs: JobsConfig{
			BackfillSchedule: getEnv("BACKFILL_SCHEDULE", "0 0 * * * *"),
			BackupSchedule:   getEnv("BACKUP_SCHEDULE", ""),
		},
		Backup: BackupConfig{
			Dir:      getEnv("BACKUP_DIR", "./data/backups"),
			Keep:     getEnvAsInt("BACKUP_KEEP", 14),
			S3Bucket: getEnv("BACKUP_S3_BUCKET", ""),
			S3Prefix: getEnv("BACKUP_S3_PREFIX", "atlantis/"),
			Region:   getEnv("AWS_REGION", ""),
		},
		App: AppConfig{
			Environment: env,
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// CacheFromEnv reads the Redis settings shared by the API and atlantisctl.
func CacheFromEnv() CacheConfig {
	return CacheConfig{
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		TTL:           time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 300)) * time.Second,
	}
}

// DatabaseURL resolves DATABASE_URL, then DB_CONNECTION, then the local SQLite file.
func DatabaseURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}
	return getEnv("DB_CONNECTION", DefaultDatabaseURL)
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Storage.Backend {
	case BackendSQL:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the sql backend")
		}
	case BackendFile:
		if c.Storage.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required for the file backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendSQL, BackendFile, c.Storage.Backend)
	}

	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}

	if c.Backup.Keep < 0 {
		return fmt.Errorf("BACKUP_KEEP must not be negative")
	}

	if c.Backup.S3Bucket != "" && c.Backup.Region == "" {
		return fmt.Errorf("AWS_REGION is required when BACKUP_S3_BUCKET is set")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
