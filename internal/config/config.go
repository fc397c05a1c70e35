// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// server mode, timeouts, rate limits, and feature toggles.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// AI Configuration
	GeminiAPIKey   string // Gemini API key for the chat fallback responder
	GroqAPIKey     string // Groq API key (OpenAI-compatible provider)
	CerebrasAPIKey string // Cerebras API key (OpenAI-compatible provider)

	// AI Model Configuration (optional, defaults apply if empty).
	// Comma-separated lists; the first entry is primary, the rest fallbacks.
	GeminiModels   []string
	GroqModels     []string
	CerebrasModels []string

	// AIProviders is the ordered provider chain, e.g. ["gemini", "groq"].
	AIProviders []string

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	InstanceID      string // Instance label for logs (default: hostname)

	// Data Configuration
	DataDir string // Data directory for the SQLite database

	// Background Jobs
	SessionPurgeInterval time.Duration // How often expired sessions are purged (default: 1h)
	BackupInterval       time.Duration // How often store snapshots are uploaded (default: 6h)

	// Observability
	SentryDSN           string
	SentryEnvironment   string
	SentryRelease       string
	SentrySampleRate    float64 // Fraction of errors reported to Sentry (default: 1.0)
	BetterStackToken    string
	BetterStackEndpoint string

	// Backup Configuration (S3-compatible object storage)
	BackupEnabled         bool
	BackupAccountID       string
	BackupAccessKeyID     string
	BackupSecretAccessKey string
	BackupBucketName      string
	BackupSnapshotKey     string

	// Chat Configuration (embedded)
	Chat ChatConfig
}

// ChatConfig holds chat-specific configuration
type ChatConfig struct {
	// Timeouts
	ChatTimeout time.Duration // Timeout for processing one chat message (see config/timeouts.go)

	// Rate Limits (Token Bucket Algorithm)
	UserRateLimitBurst        float64 // Maximum burst tokens per user (default: 15)
	UserRateLimitRefillPerSec float64 // Tokens refilled per second (default: 0.2 = 1 per 5s)

	// LLM Rate Limits (Multi-Layer: Hourly + Daily)
	LLMBurstTokens   float64 // Maximum burst tokens for LLM (default: 40)
	LLMRefillPerHour float64 // LLM tokens refilled per hour (default: 20)
	LLMDailyLimit    int     // Maximum LLM requests per day (default: 200, 0 = disabled)

	GlobalRateLimitRPS float64 // Global rate limit in requests per second (default: 100)

	// Input Constraints
	MaxMessageLength int // Maximum chat message length in bytes (default: 2000)

	// Session
	SessionTTL time.Duration // How long a login session stays valid (default: 12h)

	// Result shaping
	MaxFacultyResults int // Maximum faculty records in a multi-match list (default: 10)
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		// AI Configuration
		GeminiAPIKey:   getEnv(EnvGeminiAPIKey, ""),
		GroqAPIKey:     getEnv(EnvGroqAPIKey, ""),
		CerebrasAPIKey: getEnv(EnvCerebrasAPIKey, ""),

		// AI Model Configuration (empty = use defaults from genai package)
		GeminiModels:   getListEnv(EnvGeminiModels),
		GroqModels:     getListEnv(EnvGroqModels),
		CerebrasModels: getListEnv(EnvCerebrasModels),

		AIProviders: getListEnvDefault(EnvAIProviders, []string{"gemini", "groq"}),

		// Metrics Authentication
		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),

		// Server Configuration
		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),
		InstanceID:      getEnv(EnvInstanceID, ""),

		// Data Configuration
		DataDir: getEnv(EnvDataDir, getDefaultDataDir()),

		// Background Jobs
		SessionPurgeInterval: getDurationEnv(EnvSessionPurgeInterval, DefaultSessionPurgeInterval),
		BackupInterval:       getDurationEnv(EnvBackupInterval, DefaultBackupInterval),

		// Observability
		SentryDSN:           getEnv(EnvSentryDSN, ""),
		SentryEnvironment:   getEnv(EnvSentryEnvironment, "production"),
		SentryRelease:       getEnv(EnvSentryRelease, ""),
		SentrySampleRate:    getFloatEnv(EnvSentrySampleRate, 1.0),
		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		// Backup Configuration
		BackupEnabled:         getBoolEnv(EnvBackupEnabled, false),
		BackupAccountID:       getEnv(EnvBackupAccountID, ""),
		BackupAccessKeyID:     getEnv(EnvBackupAccessKeyID, ""),
		BackupSecretAccessKey: getEnv(EnvBackupSecretAccessKey, ""),
		BackupBucketName:      getEnv(EnvBackupBucketName, ""),
		BackupSnapshotKey:     getEnv(EnvBackupSnapshotKey, "campus-assistant/store.db.zst"),

		// Chat Configuration
		Chat: ChatConfig{
			ChatTimeout:               getDurationEnv(EnvChatTimeout, ChatProcessing),
			UserRateLimitBurst:        getFloatEnv(EnvUserRateBurst, 15.0),
			UserRateLimitRefillPerSec: getFloatEnv(EnvUserRateRefill, 0.2), // 1 per 5s
			LLMBurstTokens:            getFloatEnv(EnvLLMRateBurst, 40.0),
			LLMRefillPerHour:          getFloatEnv(EnvLLMRateRefill, 20.0),
			LLMDailyLimit:             getIntEnv(EnvLLMRateDaily, 200),
			GlobalRateLimitRPS:        getFloatEnv(EnvGlobalRateRPS, 100.0),
			MaxMessageLength:          getIntEnv(EnvMaxMessageLength, 2000),
			SessionTTL:                getDurationEnv(EnvSessionTTL, 12*time.Hour),
			MaxFacultyResults:         10,
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New(EnvDataDir+" is required"))
	}
	for _, p := range c.AIProviders {
		switch p {
		case "gemini", "groq", "cerebras":
		default:
			errs = append(errs, fmt.Errorf("unknown AI provider %q in %s", p, EnvAIProviders))
		}
	}
	if c.SessionPurgeInterval <= 0 {
		errs = append(errs, fmt.Errorf("session purge interval must be positive, got %v", c.SessionPurgeInterval))
	}
	if c.BackupInterval <= 0 {
		errs = append(errs, fmt.Errorf("backup interval must be positive, got %v", c.BackupInterval))
	}
	if c.SentrySampleRate <= 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("sentry sample rate must be in (0, 1], got %v", c.SentrySampleRate))
	}
	if c.BackupEnabled {
		if c.BackupAccountID == "" || c.BackupAccessKeyID == "" || c.BackupSecretAccessKey == "" || c.BackupBucketName == "" {
			errs = append(errs, errors.New("backup enabled but account, credentials or bucket missing"))
		}
	}
	if err := c.Chat.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("chat config: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks if the chat configuration is valid.
func (c *ChatConfig) Validate() error {
	if c.ChatTimeout <= 0 {
		return fmt.Errorf("chat timeout must be positive, got %v", c.ChatTimeout)
	}
	if c.UserRateLimitBurst <= 0 {
		return fmt.Errorf("user rate limit burst must be positive, got %f", c.UserRateLimitBurst)
	}
	if c.UserRateLimitRefillPerSec <= 0 {
		return fmt.Errorf("user rate limit refill rate must be positive, got %f", c.UserRateLimitRefillPerSec)
	}
	if c.LLMBurstTokens <= 0 {
		return fmt.Errorf("LLM burst tokens must be positive, got %f", c.LLMBurstTokens)
	}
	if c.LLMRefillPerHour <= 0 {
		return fmt.Errorf("LLM refill per hour must be positive, got %f", c.LLMRefillPerHour)
	}
	if c.LLMDailyLimit < 0 {
		return fmt.Errorf("LLM daily limit cannot be negative, got %d", c.LLMDailyLimit)
	}
	if c.GlobalRateLimitRPS <= 0 {
		return fmt.Errorf("global rate limit RPS must be positive, got %f", c.GlobalRateLimitRPS)
	}
	if c.MaxMessageLength < 1 {
		return fmt.Errorf("max message length must be positive, got %d", c.MaxMessageLength)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got %v", c.SessionTTL)
	}
	if c.MaxFacultyResults < 1 {
		return fmt.Errorf("max faculty results must be positive, got %d", c.MaxFacultyResults)
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getBoolEnv retrieves boolean environment variable with fallback to default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getListEnv retrieves a comma-separated environment variable as a slice.
// Empty entries are dropped; returns nil when the variable is unset.
func getListEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getListEnvDefault is getListEnv with a fallback when the variable is unset or empty.
func getListEnvDefault(key string, defaultValue []string) []string {
	if list := getListEnv(key); len(list) > 0 {
		return list
	}
	return defaultValue
}

// getDefaultDataDir returns platform-specific default data directory
func getDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		return "./data"
	}
	return "/data"
}

// SQLitePath returns the full path to the SQLite database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "campus.db")
}

// HasAIProvider returns true if at least one AI provider is configured.
func (c *Config) HasAIProvider() bool {
	return c.GeminiAPIKey != "" || c.GroqAPIKey != "" || c.CerebrasAPIKey != ""
}
