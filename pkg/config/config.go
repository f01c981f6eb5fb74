package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// BackendConfig holds the remote marketplace API configuration
type BackendConfig struct {
	BaseURL      string
	Timeout      time.Duration
	RetryGETs    int
	RetryBackoff time.Duration
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// CacheConfig holds redis cache configuration
type CacheConfig struct {
	Addr     string
	Password string
	DB       int
	OfferTTL time.Duration
}

// EngineConfig holds catalog engine configuration
type EngineConfig struct {
	PageSize     int
	PollInterval time.Duration
	SessionTTL   time.Duration
}

// Config holds all configuration
type Config struct {
	ServiceName string
	Backend     BackendConfig
	Server      ServerConfig
	JWT         JWTConfig
	Log         LogConfig
	Metrics     MetricsConfig
	Cache       CacheConfig
	Engine      EngineConfig
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not returning error as .env file is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	config := &Config{
		ServiceName: serviceName,
		Backend: BackendConfig{
			BaseURL:      getEnv("BACKEND_BASE_URL", "http://localhost:8081"),
			Timeout:      getEnvAsDuration("BACKEND_TIMEOUT", 15*time.Second),
			RetryGETs:    getEnvAsInt("BACKEND_RETRY_GETS", 1),
			RetryBackoff: getEnvAsDuration("BACKEND_RETRY_BACKOFF", 500*time.Millisecond),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		JWT: JWTConfig{
			SigningKey: getEnv("JWT_SIGNING_KEY", "defaultsecretkey"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", serviceName),
		},
		Cache: CacheConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			OfferTTL: getEnvAsDuration("OFFER_CACHE_TTL", time.Minute),
		},
		Engine: EngineConfig{
			PageSize:     getEnvAsInt("CATALOG_PAGE_SIZE", 10),
			PollInterval: getEnvAsDuration("NOTIFY_POLL_INTERVAL", 30*time.Second),
			SessionTTL:   getEnvAsDuration("CATALOG_SESSION_TTL", 30*time.Minute),
		},
	}

	return config, nil
}

// LogConfig returns the configuration as zap logger-friendly fields
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("backend_base_url", c.Backend.BaseURL),
		zap.String("server_port", c.Server.Port),
		zap.String("redis_addr", c.Cache.Addr),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
