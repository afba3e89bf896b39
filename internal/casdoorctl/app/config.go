package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/casdoor/pkg/httpx"
)

type Config struct {
	ConfigFile      string        // Casdoor SDK config, TOML or YAML (default: casdoor.toml)
	Profile         string        // Token store profile (default: default)
	DatabaseFile    string        // Path to the SQLite token store (default: ./casdoorctl.db)
	MasterKeyPath   string        // Optional: file holding the token sealing secret
	MasterKeyEnv    string        // Env var read when MasterKeyPath is empty
	CallbackTimeout time.Duration // How long `login` waits for the redirect (default: 5m)
	RequestTimeout  time.Duration // Per-request HTTP timeout for SDK calls (default: 30s)
	PageSize        int           // Default page size for list commands, 0 lists everything
	Env             string        // Environment (dev, staging, prod) (default: prod)
	LogLevel        string        // Log level (debug, info, warn, error) (default: warn)
	LogFormat       string        // Log format (json, text) (default: text)

	SDKRateLimit httpx.RateLimitConfig // Client-side limit on SDK calls (RATELIMIT_SDK_*)
}

const masterKeyEnv = "CASDOORCTL_MASTER_KEY"

func LoadConfig() Config {
	return Config{
		ConfigFile:      getEnvOrDefault("CASDOOR_CONFIG", "casdoor.toml"),
		Profile:         getEnvOrDefault("CASDOORCTL_PROFILE", "default"),
		DatabaseFile:    getEnvOrDefault("CASDOORCTL_DATABASE_FILE", "casdoorctl.db"),
		MasterKeyPath:   os.Getenv("CASDOORCTL_MASTER_KEY_PATH"),
		MasterKeyEnv:    masterKeyEnv,
		CallbackTimeout: getEnvDurationOrDefault("CASDOORCTL_CALLBACK_TIMEOUT", 5*time.Minute),
		RequestTimeout:  getEnvDurationOrDefault("CASDOORCTL_REQUEST_TIMEOUT", 30*time.Second),
		PageSize:        getEnvIntOrDefault("CASDOORCTL_PAGE_SIZE", 0),
		Env:             getEnvOrDefault("ENV", "prod"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "warn"),
		LogFormat:       getEnvOrDefault("LOG_FORMAT", "text"),
		SDKRateLimit:    httpx.SDKLimit,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
