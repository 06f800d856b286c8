package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/database"
)

type Config struct {
	AppEnv     string
	LogLevel   string
	ServerPort string

	Database database.Config

	JWTSecret string

	// RedisAddr enables the search result cache when set
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	SearchCacheTTL time.Duration

	CORSAllowedOrigins []string
	LiveSearchDebounce time.Duration
}

// Load reads .env files when present, then the environment
func Load(files ...string) *Config {
	// a missing .env is normal outside local development
	_ = godotenv.Load(files...)

	return &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "inkmatch"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWTSecret:          getEnv("JWT_SECRET", "your-secret-key-replace-in-production"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		SearchCacheTTL:     getEnvAsDuration("SEARCH_CACHE_TTL", 30*time.Second),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		LiveSearchDebounce: getEnvAsDuration("LIVE_SEARCH_DEBOUNCE", 300*time.Millisecond),
	}
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && d >= 0 {
			return d
		}
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
