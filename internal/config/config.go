package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// developmentSecret signs tokens when JWT_SECRET is unset outside production
const developmentSecret = "minha_chave_secreta"

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string
	DBMaxConns  int32

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Auth
	Auth AuthConfig
}

// AuthConfig holds token signing and rate limit settings
type AuthConfig struct {
	Secret    string
	Issuer    string
	Audience  string
	TokenTTL  time.Duration
	RateLimit int // requests per minute per client on /login and /register
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:5173"), ","),
		Env:         getEnv("ENV", "development"),
		Auth: AuthConfig{
			Secret:   getEnv("JWT_SECRET", ""),
			Issuer:   getEnv("JWT_ISSUER", "salt-backend"),
			Audience: getEnv("JWT_AUDIENCE", "salt-app"),
		},
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 5)
	if err != nil {
		return nil, err
	}
	cfg.DBMaxConns = int32(maxConns)

	cfg.Auth.RateLimit, err = getEnvInt("AUTH_RATE_LIMIT", 20)
	if err != nil {
		return nil, err
	}

	cfg.Auth.TokenTTL, err = getEnvDuration("TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	if cfg.Auth.Secret == "" && !cfg.IsProduction() {
		cfg.Auth.Secret = developmentSecret
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.Auth.RateLimit < 1 {
		return fmt.Errorf("AUTH_RATE_LIMIT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
