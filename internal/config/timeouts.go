// Package config provides centralized timeout constants for the application.
//
// These values are tuned based on:
//   - Chat UX expectations (the client disables input while a request is in flight)
//   - LLM provider response times (Gemini/Groq calls with retry)
//   - SQLite performance characteristics (WAL mode, busy timeout)
package config

import "time"

// Chat timeouts
const (
	// ChatProcessing is the timeout for handling a single chat message.
	// This covers classification, store queries and a potential AI call.
	//
	// Set to 30s because:
	//   - Store queries complete in milliseconds
	//   - An AI call with retry needs the bulk of the budget
	//   - The client keeps its typing indicator up for the duration
	ChatProcessing = 30 * time.Second

	// AIRequest is the timeout for a single text-generation call,
	// inside the retry loop. Providers typically respond in 1-5s.
	AIRequest = 20 * time.Second

	// ChatHTTPRead is the HTTP server read timeout for chat requests.
	// Payloads are small JSON bodies.
	ChatHTTPRead = 10 * time.Second

	// ChatHTTPWrite is the HTTP server write timeout.
	// Should accommodate ChatProcessing + response serialization.
	ChatHTTPWrite = 35 * time.Second

	// ChatHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	ChatHTTPIdle = 120 * time.Second
)

// Database timeouts
const (
	// DatabaseBusyTimeout is SQLite busy_timeout pragma value.
	// Handles concurrent write contention during seeding operations.
	DatabaseBusyTimeout = 30 * time.Second

	// DatabaseConnMaxLifetime is the maximum lifetime of database connections.
	// Prevents stale connections and allows connection pool refresh.
	DatabaseConnMaxLifetime = time.Hour
)

// Background job intervals
const (
	// DefaultSessionPurgeInterval is how often expired sessions are deleted,
	// unless overridden via CAMPUS_SESSION_PURGE_INTERVAL.
	DefaultSessionPurgeInterval = 1 * time.Hour

	// SessionPurgeInitialDelay is the delay before the first session purge.
	// Allows the server to stabilize before running cleanup.
	SessionPurgeInitialDelay = 5 * time.Minute

	// DefaultBackupInterval is how often the store snapshot is uploaded,
	// unless overridden via CAMPUS_BACKUP_INTERVAL.
	DefaultBackupInterval = 6 * time.Hour

	// BackupInitialDelay is the delay before the first snapshot upload.
	BackupInitialDelay = 15 * time.Minute

	// MetricsUpdateInterval is how often store size metrics are updated.
	MetricsUpdateInterval = 5 * time.Minute

	// RateLimiterCleanupInterval is how often inactive user rate limiters are cleaned.
	RateLimiterCleanupInterval = 5 * time.Minute
)

// Health checks
const (
	// ReadinessCheckTimeout bounds the store ping inside /readyz.
	ReadinessCheckTimeout = 5 * time.Second
)

// Graceful shutdown
const (
	// GracefulShutdown is the timeout for graceful server shutdown.
	// Allows in-flight requests to complete before forceful termination.
	GracefulShutdown = 30 * time.Second
)
