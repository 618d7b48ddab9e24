package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Auth      AuthConfig
	Posting   PostingConfig
	RateLimit RateLimitConfig
	Events    EventsConfig
	Sentry    SentryConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	Environment    string
	ServiceName    string
	PublicURL      string
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int    // seconds, JSON API only
	CORSOrigins    string // Comma-separated list of allowed origins
}

// DatabaseConfig holds the row store configuration
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
	Migrate  bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds the selfie bucket configuration
type StorageConfig struct {
	Provider      string // s3 or cloudinary
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	BaseURL       string
	CloudinaryURL string
	MaxFileSizeMB int
}

// AuthConfig holds identity provider and session configuration
type AuthConfig struct {
	FacebookAppID     string
	FacebookAppSecret string
	SessionSecret     string
	SessionHours      int
}

// PostingConfig holds posting wizard configuration
type PostingConfig struct {
	DraftTTLMinutes int
	CountryCode     string
	Timezone        string
	CaptureDir      string
}

// RateLimitConfig holds rate limiting configuration for ride creation
type RateLimitConfig struct {
	Enabled       bool
	WindowSeconds int
	PostLimit     int
	RedisPrefix   string
}

// EventsConfig holds the cross-instance refresh signal configuration
type EventsConfig struct {
	NATSURL string
	Subject string
}

// SentryConfig holds error reporting configuration
type SentryConfig struct {
	DSN string
}

// Load loads configuration from environment variables.
// Secrets have no defaults; a missing secret is a startup error.
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			ServiceName:    serviceName,
			PublicURL:      getEnv("PUBLIC_URL", "http://localhost:8080"),
			ReadTimeout:    getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout:   getEnvAsInt("WRITE_TIMEOUT", 30),
			RequestTimeout: getEnvAsInt("REQUEST_TIMEOUT", 15),
			CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "postgres"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 1),
			Migrate:  getEnvAsBool("DB_MIGRATE", true),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Provider:      getEnv("STORAGE_PROVIDER", "s3"),
			Bucket:        getEnv("STORAGE_BUCKET", "selfies"),
			Region:        getEnv("STORAGE_REGION", "af-south-1"),
			Endpoint:      getEnv("STORAGE_ENDPOINT", ""),
			AccessKey:     getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:     getEnv("STORAGE_SECRET_KEY", ""),
			BaseURL:       getEnv("STORAGE_PUBLIC_URL", ""),
			CloudinaryURL: getEnv("CLOUDINARY_URL", ""),
			MaxFileSizeMB: getEnvAsInt("STORAGE_MAX_FILE_MB", 5),
		},
		Auth: AuthConfig{
			FacebookAppID:     getEnv("FACEBOOK_APP_ID", ""),
			FacebookAppSecret: getEnv("FACEBOOK_APP_SECRET", ""),
			SessionSecret:     getEnv("SESSION_SECRET", ""),
			SessionHours:      getEnvAsInt("SESSION_HOURS", 72),
		},
		Posting: PostingConfig{
			DraftTTLMinutes: getEnvAsInt("DRAFT_TTL_MINUTES", 30),
			CountryCode:     getEnv("PHONE_COUNTRY_CODE", "27"),
			Timezone:        getEnv("TIMEZONE", "Africa/Johannesburg"),
			CaptureDir:      getEnv("CAPTURE_DIR", os.TempDir()),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", true),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 3600),
			PostLimit:     getEnvAsInt("RATE_LIMIT_POSTS", 10),
			RedisPrefix:   getEnv("RATE_LIMIT_PREFIX", "rl"),
		},
		Events: EventsConfig{
			NATSURL: getEnv("NATS_URL", ""),
			Subject: getEnv("NATS_SUBJECT", "liftmate.rides.changed"),
		},
		Sentry: SentryConfig{
			DSN: getEnv("SENTRY_DSN", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every required setting is present
func (c *Config) Validate() error {
	var missing []string

	if c.Database.URL == "" && (c.Database.Host == "" || c.Database.Password == "") {
		missing = append(missing, "DATABASE_URL (or DB_HOST and DB_PASSWORD)")
	}
	if c.Auth.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if c.Auth.FacebookAppID != "" && c.Auth.FacebookAppSecret == "" {
		missing = append(missing, "FACEBOOK_APP_SECRET")
	}

	switch c.Storage.Provider {
	case "s3":
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			missing = append(missing, "STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY")
		}
	case "cloudinary":
		if c.Storage.CloudinaryURL == "" {
			missing = append(missing, "CLOUDINARY_URL")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_PROVIDER %q", c.Storage.Provider)
	}

	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// MigrationURL returns the connection URL in the form golang-migrate expects
func (c *DatabaseConfig) MigrationURL() string {
	if c.URL != "" {
		if u, err := url.Parse(c.URL); err == nil {
			u.Scheme = "pgx5"
			return u.String()
		}
		return c.URL
	}
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// DraftTTL returns how long an idle posting draft lives
func (c *PostingConfig) DraftTTL() time.Duration {
	return time.Duration(c.DraftTTLMinutes) * time.Minute
}

// Location returns the timezone used for the departure date check
func (c *PostingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FacebookEnabled reports whether posting is gated behind Facebook login
func (c *AuthConfig) FacebookEnabled() bool {
	return c.FacebookAppID != ""
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
