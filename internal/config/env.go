// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Server
	EnvPort            = "CAMPUS_PORT"
	EnvLogLevel        = "CAMPUS_LOG_LEVEL"
	EnvShutdownTimeout = "CAMPUS_SHUTDOWN_TIMEOUT"
	EnvInstanceID      = "CAMPUS_INSTANCE_ID"

	// Data
	EnvDataDir = "CAMPUS_DATA_DIR"

	// Chat
	EnvChatTimeout      = "CAMPUS_CHAT_TIMEOUT"
	EnvMaxMessageLength = "CAMPUS_MAX_MESSAGE_LENGTH"
	EnvSessionTTL       = "CAMPUS_SESSION_TTL"

	// Rate Limits
	EnvGlobalRateRPS  = "CAMPUS_GLOBAL_RATE_RPS"
	EnvUserRateBurst  = "CAMPUS_USER_RATE_BURST"
	EnvUserRateRefill = "CAMPUS_USER_RATE_REFILL"
	EnvLLMRateBurst   = "CAMPUS_LLM_RATE_BURST"
	EnvLLMRateRefill  = "CAMPUS_LLM_RATE_REFILL"
	EnvLLMRateDaily   = "CAMPUS_LLM_RATE_DAILY"

	// Background Tasks
	EnvSessionPurgeInterval = "CAMPUS_SESSION_PURGE_INTERVAL"
	EnvBackupInterval       = "CAMPUS_BACKUP_INTERVAL"

	// AI Feature
	EnvAIProviders    = "CAMPUS_AI_PROVIDERS"
	EnvGeminiAPIKey   = "CAMPUS_GEMINI_API_KEY"
	EnvGroqAPIKey     = "CAMPUS_GROQ_API_KEY"
	EnvCerebrasAPIKey = "CAMPUS_CEREBRAS_API_KEY"
	EnvGeminiModels   = "CAMPUS_GEMINI_MODELS"
	EnvGroqModels     = "CAMPUS_GROQ_MODELS"
	EnvCerebrasModels = "CAMPUS_CEREBRAS_MODELS"

	// Backup Feature (S3-compatible object storage)
	EnvBackupEnabled         = "CAMPUS_BACKUP_ENABLED"
	EnvBackupAccountID       = "CAMPUS_BACKUP_ACCOUNT_ID"
	EnvBackupAccessKeyID     = "CAMPUS_BACKUP_ACCESS_KEY_ID"
	EnvBackupSecretAccessKey = "CAMPUS_BACKUP_SECRET_ACCESS_KEY"
	EnvBackupBucketName      = "CAMPUS_BACKUP_BUCKET_NAME"
	EnvBackupSnapshotKey     = "CAMPUS_BACKUP_SNAPSHOT_KEY"

	// Sentry Feature
	EnvSentryDSN         = "CAMPUS_SENTRY_DSN"
	EnvSentryEnvironment = "CAMPUS_SENTRY_ENVIRONMENT"
	EnvSentryRelease     = "CAMPUS_SENTRY_RELEASE"
	EnvSentrySampleRate  = "CAMPUS_SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackToken    = "CAMPUS_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "CAMPUS_BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsUsername = "CAMPUS_METRICS_USERNAME"
	EnvMetricsPassword = "CAMPUS_METRICS_PASSWORD"
)
