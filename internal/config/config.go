package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the reference deployment's API prefix.
const DefaultBaseURL = "http://localhost:5000/api"

// Config holds client and mock-backend configuration
type Config struct {
	Env         string
	LogLevel    string
	BaseURL     string
	HTTPTimeout time.Duration

	// Session persistence
	SessionStore  string
	SessionFile   string
	SessionPrefix string
	SessionTTL    time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTLS      bool

	// Mock backend
	MockPort      string
	MockJWTSecret string
	MockTokenTTL  time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		BaseURL:     strings.TrimRight(getEnv("NEARDOC_BASE_URL", DefaultBaseURL), "/"),
		HTTPTimeout: getEnvAsDuration("NEARDOC_HTTP_TIMEOUT", 30*time.Second),

		SessionStore:  strings.ToLower(strings.TrimSpace(getEnv("SESSION_STORE", "file"))),
		SessionFile:   getEnv("SESSION_FILE", defaultSessionFile()),
		SessionPrefix: getEnv("SESSION_PREFIX", "neardoc:session"),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 0),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		MockPort:      getEnv("MOCK_PORT", "5000"),
		MockJWTSecret: getEnv("MOCK_JWT_SECRET", "neardoc-dev-secret"),
		MockTokenTTL:  getEnvAsDuration("MOCK_TOKEN_TTL", 24*time.Hour),
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".neardoc-session.json"
	}
	return filepath.Join(dir, "neardoc", "session.json")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
