package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Port        string
	AppEnv      string
	LogLevel    string
	FrontendURL string
	// Storage
	StorageBackend string
	DBUrl          string
	// Identity: HS256 shared secret and/or RS256 JWKS endpoint
	JWTSecret string
	JWKSUrl   string
	// Principals granted admin at start-up
	BootstrapAdmins []string
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
}

func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		AppEnv:      getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),

		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", StorageMemory)),
		DBUrl:          getEnv("DATABASE_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWKSUrl:   strings.TrimRight(getEnv("JWKS_URL", ""), "/"),

		BootstrapAdmins: getEnvList("BOOTSTRAP_ADMINS"),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),    // 1 minute window
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100), // 100 requests per window
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}
	if len(cfg.BootstrapAdmins) == 0 {
		log.Println("WARNING: BOOTSTRAP_ADMINS is empty. No principal can assign roles until one is seeded.")
	}

	return cfg, nil
}

// Validate checks combinations that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageMemory:
	case StoragePostgres:
		if c.DBUrl == "" {
			return errors.New("config: DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return errors.New("config: STORAGE_BACKEND must be memory or postgres")
	}
	if c.JWTSecret == "" && c.JWKSUrl == "" {
		return errors.New("config: one of JWT_SECRET or JWKS_URL must be set")
	}
	if c.RateLimitWindowSeconds <= 0 || c.RateLimitGlobalThreshold <= 0 {
		return errors.New("config: rate limit window and threshold must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks
func getEnvList(key string) []string {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
