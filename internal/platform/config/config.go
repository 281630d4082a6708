package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Storage providers.
const (
	StorageLocal = "local"
	StorageGCS   = "gcs"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string

	JWTSecret string
	JWTIssuer string

	// Approval workflow
	OverrideRole      string
	RedisURL          string
	TransitionLockTTL time.Duration

	// Blob storage
	StorageProvider    string
	StorageLocalRoot   string
	GCSBucket          string
	GCSCredentialsJSON string

	// Uploads
	UploadMaxBytes int64
	UploadTTL      time.Duration

	// HTTP
	RateLimit          string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("OVERRIDE_ROLE", "admin")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("TRANSITION_LOCK_TTL", "10s")
	viper.SetDefault("STORAGE_PROVIDER", StorageLocal)
	viper.SetDefault("STORAGE_LOCAL_ROOT", "./storage")
	viper.SetDefault("GCS_BUCKET", "")
	viper.SetDefault("GCS_CREDENTIALS_JSON", "")
	viper.SetDefault("UPLOAD_MAX_BYTES", 10<<20)
	viper.SetDefault("UPLOAD_TTL", "24h")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	// Environment variables override the defaults above. An empty variable counts as set.
	viper.AllowEmptyEnv(true)
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	// An explicitly empty OVERRIDE_ROLE disables the override.
	cfg.OverrideRole = strings.TrimSpace(viper.GetString("OVERRIDE_ROLE"))
	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.TransitionLockTTL = parseDuration("TRANSITION_LOCK_TTL", 10*time.Second)

	cfg.StorageProvider = strings.ToLower(viper.GetString("STORAGE_PROVIDER"))
	switch cfg.StorageProvider {
	case StorageLocal, StorageGCS:
	default:
		return nil, fmt.Errorf("unknown STORAGE_PROVIDER %q, expected %q or %q", cfg.StorageProvider, StorageLocal, StorageGCS)
	}
	cfg.StorageLocalRoot = viper.GetString("STORAGE_LOCAL_ROOT")
	cfg.GCSBucket = viper.GetString("GCS_BUCKET")
	cfg.GCSCredentialsJSON = viper.GetString("GCS_CREDENTIALS_JSON")
	if cfg.StorageProvider == StorageGCS && cfg.GCSBucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET must be set when STORAGE_PROVIDER is %q", StorageGCS)
	}

	cfg.UploadMaxBytes = viper.GetInt64("UPLOAD_MAX_BYTES")
	if cfg.UploadMaxBytes <= 0 {
		cfg.UploadMaxBytes = 10 << 20
		log.Printf("Warning: Invalid UPLOAD_MAX_BYTES. Defaulting to %d.\n", cfg.UploadMaxBytes)
	}
	cfg.UploadTTL = parseDuration("UPLOAD_TTL", 24*time.Hour)

	// An empty RATE_LIMIT disables rate limiting.
	cfg.RateLimit = strings.TrimSpace(viper.GetString("RATE_LIMIT"))
	if cfg.RateLimit != "" {
		if _, err := limiter.NewRateFromFormatted(cfg.RateLimit); err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
		}
	}
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	return cfg, nil
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
