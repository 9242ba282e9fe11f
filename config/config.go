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
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Port string
	Env  string

	DBURL    string
	RedisURL string

	JWTSecret      string
	AccessTokenTTL time.Duration
	SessionMaxAge  time.Duration

	GhostURL        string
	GhostContentKey string

	CORSOrigin string

	LogLevel  string
	LogFormat string

	AuditAsync bool

	GoogleClientID         string
	GoogleClientSecret     string
	GoogleRedirectURL      string
	GoogleFrontendRedirect string
}

// IsProduction reports whether cookies must be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != ""
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}
	return FromEnv()
}

// LoadDatabaseURL is for commands that only touch the database.
func LoadDatabaseURL() (string, error) {
	_ = godotenv.Load()
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		return "", fmt.Errorf("missing required environment variables: DB_URL")
	}
	return dsn, nil
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	var missing []string
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             strings.ToLower(getEnv("APP_ENV", EnvDevelopment)),
		DBURL:           must("DB_URL"),
		RedisURL:        must("REDIS_URL"),
		JWTSecret:       must("JWT_SECRET"),
		GhostURL:        strings.TrimRight(must("GHOST_URL"), "/"),
		GhostContentKey: must("GHOST_CONTENT_API_KEY"),
		CORSOrigin:      getEnv("CORS_ORIGIN", "http://localhost:4321"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),

		GoogleClientID:         getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:     getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:      getEnv("GOOGLE_REDIRECT_URL", ""),
		GoogleFrontendRedirect: getEnv("GOOGLE_FRONTEND_REDIRECT", ""),
	}

	var err error
	if cfg.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionMaxAge, err = getDuration("SESSION_MAX_AGE", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.AuditAsync, err = getBool("AUDIT_ASYNC", true); err != nil {
		return nil, err
	}

	if cfg.GoogleClientID != "" {
		if cfg.GoogleClientSecret == "" {
			missing = append(missing, "GOOGLE_CLIENT_SECRET")
		}
		if cfg.GoogleRedirectURL == "" {
			missing = append(missing, "GOOGLE_REDIRECT_URL")
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
