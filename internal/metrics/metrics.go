package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Chat metrics
	ChatMessagesTotal   *prometheus.CounterVec
	ChatDurationSeconds *prometheus.HistogramVec

	// AI dispatcher metrics
	AIRequestsTotal   *prometheus.CounterVec
	AIDurationSeconds *prometheus.HistogramVec

	// Store metrics
	StoreQueryDuration *prometheus.HistogramVec
	StoreIntegrity     *prometheus.CounterVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec

	// Auth metrics
	AuthAttemptsTotal *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterWaitDuration *prometheus.HistogramVec
	RateLimiterDropped      *prometheus.CounterVec
	RateLimiterActiveKeys   *prometheus.GaugeVec

	// Singleflight metrics
	SingleflightDedupTotal *prometheus.CounterVec

	// Backup metrics
	BackupRunsTotal *prometheus.CounterVec
	BackupDuration  prometheus.Histogram

	// Store size metrics
	StoreRecords *prometheus.GaugeVec

	// Background job metrics
	JobRunsTotal       *prometheus.CounterVec
	JobDurationSeconds *prometheus.HistogramVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		// Chat metrics
		ChatMessagesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_chat_messages_total",
				Help: "Total number of chat messages by resolved intent and status",
			},
			[]string{"intent", "status"}, // status: success, error, rate_limited
		),

		ChatDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "campus_chat_duration_seconds",
				Help:    "Chat message processing duration in seconds by intent",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5}, // Local intents resolve in milliseconds
			},
			[]string{"intent"}, // intent: classroom, library, faculty, fallback
		),

		// AI dispatcher metrics
		AIRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_ai_requests_total",
				Help: "Total number of AI provider calls by provider, model and status",
			},
			[]string{"provider", "status"}, // status: success, error, quota, credentials, timeout
		),

		AIDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "campus_ai_duration_seconds",
				Help:    "AI provider call duration in seconds by provider",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30}, // Matches the 20s request timeout + retries
			},
			[]string{"provider"}, // provider: gemini, groq, cerebras
		),

		// Store metrics
		StoreQueryDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "campus_store_query_duration_seconds",
				Help:    "Store query duration in seconds by operation",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"operation"},
		),

		StoreIntegrity: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_store_integrity_issues_total",
				Help: "Total number of store data integrity issues detected",
			},
			[]string{"issue_type"}, // issue_type: occupied_exceeds_total, etc.
		),

		// HTTP metrics
		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_http_errors_total",
				Help: "Total HTTP errors by type and endpoint",
			},
			[]string{"error_type", "endpoint"}, // error_type: timeout, rate_limit, unauthorized, etc.
		),

		// Auth metrics
		AuthAttemptsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_auth_attempts_total",
				Help: "Total number of login attempts by status",
			},
			[]string{"status"}, // status: success, bad_credentials, error
		),

		// Rate limiter metrics
		RateLimiterWaitDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "campus_rate_limiter_wait_duration_seconds",
				Help:    "Time spent waiting for rate limiter token by limiter type",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5}, // 1ms to 5s
			},
			[]string{"limiter_type"}, // limiter_type: user, llm, global
		),

		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_rate_limiter_dropped_total",
				Help: "Total number of requests dropped by rate limiter",
			},
			[]string{"limiter_type"}, // limiter_type: user, llm, global
		),

		RateLimiterActiveKeys: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "campus_rate_limiter_active_keys",
				Help: "Current number of tracked keys by limiter type",
			},
			[]string{"limiter_type"},
		),

		// Singleflight metrics
		SingleflightDedupTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_singleflight_dedup_total",
				Help: "Total number of deduplicated requests (requests that waited instead of executing)",
			},
			[]string{"operation"}, // operation: ai_fallback, faculty_index
		),

		// Backup metrics
		BackupRunsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_backup_runs_total",
				Help: "Total number of backup runs by status",
			},
			[]string{"status"}, // status: success, error
		),

		BackupDuration: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "campus_backup_duration_seconds",
				Help:    "Total duration of a backup run",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300}, // 1s to 5min
			},
		),

		// Store size metrics
		StoreRecords: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "campus_store_records",
				Help: "Current number of records by table",
			},
			[]string{"table"}, // table: classrooms, schedules, faculty
		),

		// Background job metrics
		JobRunsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_job_runs_total",
				Help: "Total number of background job runs by job and status",
			},
			[]string{"job", "status"}, // job: session_purge, store_metrics
		),

		JobDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "campus_job_duration_seconds",
				Help:    "Background job duration in seconds by job",
				Buckets: []float64{0.001, 0.01, 0.1, 1, 5, 30, 60},
			},
			[]string{"job"},
		),
	}

	return m
}

// RecordChatMessage records a processed chat message with its resolved intent
func (m *Metrics) RecordChatMessage(intent, status string, duration float64) {
	m.ChatMessagesTotal.WithLabelValues(intent, status).Inc()
	m.ChatDurationSeconds.WithLabelValues(intent).Observe(duration)
}

// RecordAIRequest records an AI provider call with status
func (m *Metrics) RecordAIRequest(provider, status string, duration float64) {
	m.AIRequestsTotal.WithLabelValues(provider, status).Inc()
	m.AIDurationSeconds.WithLabelValues(provider).Observe(duration)
}

// RecordStoreQuery records a store query duration
func (m *Metrics) RecordStoreQuery(operation string, duration float64) {
	m.StoreQueryDuration.WithLabelValues(operation).Observe(duration)
}

// RecordStoreIntegrityIssue records a store data integrity issue
func (m *Metrics) RecordStoreIntegrityIssue(issueType string) {
	m.StoreIntegrity.WithLabelValues(issueType).Inc()
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, endpoint string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}

// RecordAuthAttempt records a login attempt
func (m *Metrics) RecordAuthAttempt(status string) {
	m.AuthAttemptsTotal.WithLabelValues(status).Inc()
}

// RecordRateLimiterWait records time spent waiting for rate limiter
func (m *Metrics) RecordRateLimiterWait(limiterType string, duration float64) {
	m.RateLimiterWaitDuration.WithLabelValues(limiterType).Observe(duration)
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}

// SetRateLimiterActive sets the current number of tracked keys for a limiter
func (m *Metrics) SetRateLimiterActive(limiterType string, count int) {
	m.RateLimiterActiveKeys.WithLabelValues(limiterType).Set(float64(count))
}

// RecordSingleflightDedup records a deduplicated request
func (m *Metrics) RecordSingleflightDedup(operation string) {
	m.SingleflightDedupTotal.WithLabelValues(operation).Inc()
}

// RecordBackupRun records a backup run completion
func (m *Metrics) RecordBackupRun(status string, duration float64) {
	m.BackupRunsTotal.WithLabelValues(status).Inc()
	m.BackupDuration.Observe(duration)
}

// SetStoreSize sets the current record count for a table
func (m *Metrics) SetStoreSize(table string, count int) {
	m.StoreRecords.WithLabelValues(table).Set(float64(count))
}

// RecordJob records a background job run
func (m *Metrics) RecordJob(job, status string, duration float64) {
	m.JobRunsTotal.WithLabelValues(job, status).Inc()
	m.JobDurationSeconds.WithLabelValues(job).Observe(duration)
}
