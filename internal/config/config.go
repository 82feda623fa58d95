package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Backend  BackendConfig
	CheckIn  CheckInConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// BackendConfig holds the booking/transaction backend settings.
type BackendConfig struct {
	BaseURL          string
	APIToken         string
	Timeout          time.Duration
	FailureThreshold int
	BreakerInterval  time.Duration
	BreakerTimeout   time.Duration
}

// CheckInConfig holds the check-in workflow settings.
type CheckInConfig struct {
	PayLater         bool
	PayLaterStations map[string]bool
	SessionTTL       time.Duration
	LockTTL          time.Duration
	ReturnURL        string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string
	Development bool
}

// backendCallsPerIntent is the longest chain of sequential backend calls a
// single check-in intent makes: confirm, status fallback, re-read and
// transaction lookup during verify.
const backendCallsPerIntent = 4

// lockTTLMargin covers the Redis round trips around those calls.
const lockTTLMargin = 5 * time.Second

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			AllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			DBName:       getEnv("DB_NAME", "station_ops"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			PoolSize: getIntEnv("REDIS_POOL_SIZE", 20),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "station-ops"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Backend: BackendConfig{
			BaseURL:          getEnv("BACKEND_BASE_URL", "http://localhost:5000"),
			APIToken:         getEnv("BACKEND_API_TOKEN", ""),
			Timeout:          getDurationEnv("BACKEND_TIMEOUT", 15*time.Second),
			FailureThreshold: getIntEnv("BACKEND_BREAKER_FAILURES", 5),
			BreakerInterval:  getDurationEnv("BACKEND_BREAKER_INTERVAL", time.Minute),
			BreakerTimeout:   getDurationEnv("BACKEND_BREAKER_TIMEOUT", 30*time.Second),
		},
		CheckIn: CheckInConfig{
			PayLater:         getBoolEnv("CHECKIN_PAY_LATER", false),
			PayLaterStations: getBoolMapEnv("CHECKIN_PAY_LATER_STATIONS"),
			SessionTTL:       getDurationEnv("CHECKIN_SESSION_TTL", time.Hour),
			LockTTL:          getDurationEnv("CHECKIN_LOCK_TTL", 30*time.Second),
			ReturnURL:        getEnv("CHECKIN_RETURN_URL", "http://localhost:3000/checkin/resume"),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnv("APP_ENV", "production") == "development",
		},
	}

	cfg.CheckIn.LockTTL = lockTTLFor(cfg.CheckIn.LockTTL, cfg.Backend.Timeout)
	return cfg
}

// lockTTLFor raises the session lock TTL so that a lock cannot expire while
// its intent is still waiting on the backend.
func lockTTLFor(configured, backendTimeout time.Duration) time.Duration {
	floor := backendCallsPerIntent*backendTimeout + lockTTLMargin
	if configured < floor {
		return floor
	}
	return configured
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getListEnv reads a comma-separated list.
func getListEnv(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getBoolMapEnv reads "ST-1,ST-2=false" as {ST-1: true, ST-2: false}.
func getBoolMapEnv(key string) map[string]bool {
	out := make(map[string]bool)
	for _, item := range getListEnv(key) {
		name, value, found := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !found {
			out[name] = true
			continue
		}
		if boolVal, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			out[name] = boolVal
		}
	}
	return out
}
