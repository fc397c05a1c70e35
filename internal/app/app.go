// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/askdsu/campus-assistant-go/internal/api"
	"github.com/askdsu/campus-assistant-go/internal/auth"
	"github.com/askdsu/campus-assistant-go/internal/backup"
	"github.com/askdsu/campus-assistant-go/internal/buildinfo"
	"github.com/askdsu/campus-assistant-go/internal/chat"
	"github.com/askdsu/campus-assistant-go/internal/config"
	"github.com/askdsu/campus-assistant-go/internal/ctxutil"
	"github.com/askdsu/campus-assistant-go/internal/genai"
	"github.com/askdsu/campus-assistant-go/internal/logger"
	"github.com/askdsu/campus-assistant-go/internal/metrics"
	"github.com/askdsu/campus-assistant-go/internal/modules/classroom"
	"github.com/askdsu/campus-assistant-go/internal/modules/faculty"
	"github.com/askdsu/campus-assistant-go/internal/modules/library"
	"github.com/askdsu/campus-assistant-go/internal/r2client"
	"github.com/askdsu/campus-assistant-go/internal/ratelimit"
	"github.com/askdsu/campus-assistant-go/internal/search"
	"github.com/askdsu/campus-assistant-go/internal/sentry"
	"github.com/askdsu/campus-assistant-go/internal/storage"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg           *config.Config
	logger        *logger.Logger
	db            *storage.DB
	metrics       *metrics.Metrics
	registry      *prometheus.Registry
	index         *search.Index
	dispatcher    *genai.Dispatcher
	llmLimiter    *ratelimit.LLMRateLimiter
	userLimiter   *ratelimit.KeyedLimiter
	globalLimiter *ratelimit.Limiter
	processor     *chat.Processor
	authService   *auth.Service
	backupManager *backup.Manager
	server        *http.Server
	wg            sync.WaitGroup // Track background goroutines for graceful shutdown
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})

	log = log.WithField("service", "campus-assistant-go")
	instanceID := cfg.InstanceID
	if instanceID == "" {
		if host, err := os.Hostname(); err == nil {
			instanceID = host
		}
	}
	if instanceID != "" {
		log = log.WithField("instance_id", instanceID)
	}

	// Set as default logger to enable context value extraction (userID, sessionID,
	// requestID) via ContextHandler in package-level slog.*Context() calls.
	slog.SetDefault(log.Logger)

	log.Info("Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     cfg.SentryRelease,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Sentry initialization failed")
	} else if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Sentry error tracking enabled")
	}

	var r2 *r2client.Client
	if cfg.BackupEnabled {
		client, err := r2client.New(ctx, r2client.Config{
			Endpoint:    fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.BackupAccountID),
			AccessKeyID: cfg.BackupAccessKeyID,
			SecretKey:   cfg.BackupSecretAccessKey,
			BucketName:  cfg.BackupBucketName,
		})
		if err != nil {
			log.WithError(err).Warn("Backup client initialization failed, backups disabled")
		} else {
			r2 = client
			if _, err := backup.RestoreSnapshot(ctx, r2, cfg.BackupSnapshotKey, cfg.SQLitePath(), log); err != nil {
				log.WithError(err).Warn("Store snapshot restore failed, starting with local state")
			}
		}
	}

	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	log.WithField("path", cfg.SQLitePath()).Info("Database connected")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)
	db.SetMetrics(m)

	index, err := search.NewIndex(log)
	if err != nil {
		log.WithError(err).Warn("Suggestion index initialization failed")
		index = nil
	} else {
		members, err := db.GetAllFaculty(ctx)
		if err != nil {
			log.WithError(err).Warn("Failed to load faculty for suggestion index")
		} else if err := index.Build(members); err != nil {
			log.WithError(err).Warn("Suggestion index build failed")
		} else {
			log.WithField("doc_count", index.Count()).Info("Faculty suggestion index built")
		}
	}

	llmLimiter := ratelimit.NewLLMRateLimiterWithConfig(ratelimit.LLMLimiterConfig{
		BurstTokens:   cfg.Chat.LLMBurstTokens,
		RefillPerHour: cfg.Chat.LLMRefillPerHour,
		DailyLimit:    cfg.Chat.LLMDailyLimit,
		CleanupPeriod: config.RateLimiterCleanupInterval,
		Metrics:       m,
	})
	userLimiter := ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Name:          "user",
		Burst:         cfg.Chat.UserRateLimitBurst,
		RefillRate:    cfg.Chat.UserRateLimitRefillPerSec,
		CleanupPeriod: config.RateLimiterCleanupInterval,
		Metrics:       m,
	})
	globalLimiter := ratelimit.New(cfg.Chat.GlobalRateLimitRPS, cfg.Chat.GlobalRateLimitRPS)

	var responder genai.Responder
	if cfg.HasAIProvider() {
		responder, err = genai.CreateResponder(ctx, buildLLMConfig(cfg), m)
		if err != nil {
			log.WithError(err).Warn("AI responder initialization failed, fallback disabled")
		}
	}
	dispatcher := genai.NewDispatcher(responder, llmLimiter, m, cfg.Chat.ChatTimeout)
	if dispatcher.IsEnabled() {
		log.WithField("providers", cfg.AIProviders).Info("AI fallback enabled")
	} else {
		log.Info("No AI provider configured, fallback replies disabled")
	}

	processor := chat.NewProcessor(chat.ProcessorConfig{
		Classroom: classroom.NewHandler(db, log),
		Library:   library.NewHandler(db, m, log),
		Faculty:   faculty.NewHandler(db, index, log, cfg.Chat.MaxFacultyResults),
		AI:        dispatcher,
		Logger:    log,
		Metrics:   m,
	})

	authService := auth.NewService(db, m, log, cfg.Chat.SessionTTL)

	apiHandler := api.NewHandler(api.Config{
		Processor:        processor,
		AI:               dispatcher,
		Auth:             authService,
		Metrics:          m,
		Logger:           log,
		MaxMessageLength: cfg.Chat.MaxMessageLength,
	})

	var backupManager *backup.Manager
	if r2 != nil {
		backupManager = backup.New(db, r2, backup.Config{
			SnapshotKey: cfg.BackupSnapshotKey,
		}, m, log)
		log.WithField("bucket", cfg.BackupBucketName).Info("Store backups enabled")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))

	app := &Application{
		cfg:           cfg,
		logger:        log,
		db:            db,
		metrics:       m,
		registry:      registry,
		index:         index,
		dispatcher:    dispatcher,
		llmLimiter:    llmLimiter,
		userLimiter:   userLimiter,
		globalLimiter: globalLimiter,
		processor:     processor,
		authService:   authService,
		backupManager: backupManager,
	}

	router.GET("/", app.serviceInfo)
	router.GET("/healthz", app.livenessCheck)
	router.HEAD("/healthz", app.livenessCheck)
	router.GET("/readyz", app.readinessCheck)
	router.HEAD("/readyz", app.readinessCheck)
	router.GET("/metrics",
		metricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Rate limiting applies to the chat API only, not health or metrics.
	router.Use(app.rateLimitMiddleware())
	apiHandler.RegisterRoutes(router)

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: config.ChatHTTPRead,
		ReadTimeout:       config.ChatHTTPRead,
		WriteTimeout:      config.ChatHTTPWrite,
		IdleTimeout:       config.ChatHTTPIdle,
	}

	log.Info("Initialization complete")
	return app, nil
}

// buildLLMConfig creates an LLMConfig from the application config.
func buildLLMConfig(cfg *config.Config) genai.LLMConfig {
	llmCfg := genai.DefaultLLMConfig()

	llmCfg.Gemini.APIKey = cfg.GeminiAPIKey
	llmCfg.Groq.APIKey = cfg.GroqAPIKey
	llmCfg.Cerebras.APIKey = cfg.CerebrasAPIKey

	if len(cfg.GeminiModels) > 0 {
		llmCfg.Gemini.Models = cfg.GeminiModels
	}
	if len(cfg.GroqModels) > 0 {
		llmCfg.Groq.Models = cfg.GroqModels
	}
	if len(cfg.CerebrasModels) > 0 {
		llmCfg.Cerebras.Models = cfg.CerebrasModels
	}
	if len(cfg.AIProviders) > 0 {
		providers := make([]genai.Provider, 0, len(cfg.AIProviders))
		for _, p := range cfg.AIProviders {
			switch p {
			case "gemini":
				providers = append(providers, genai.ProviderGemini)
			case "groq":
				providers = append(providers, genai.ProviderGroq)
			case "cerebras":
				providers = append(providers, genai.ProviderCerebras)
			default:
				slog.Warn("ignoring unknown provider", "name", p)
			}
		}
		if len(providers) > 0 {
			llmCfg.Providers = providers
		}
	}

	return llmCfg
}

func (a *Application) serviceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "campus-assistant-go",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func (a *Application) getFeatures() map[string]bool {
	return map[string]bool{
		"ai_fallback": a.dispatcher.IsEnabled(),
		"suggestions": a.index != nil && a.index.IsEnabled(),
		"backups":     a.backupManager != nil,
	}
}

func (a *Application) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), config.ReadinessCheckTimeout)
	defer cancel()

	if err := a.db.Ready(ctx); err != nil {
		a.logger.WithError(err).Warn("Readiness check failed: database unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "database unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"database": "connected",
		"store":    a.getStoreStats(ctx),
		"features": a.getFeatures(),
	})
}

func (a *Application) getStoreStats(ctx context.Context) map[string]int {
	stats := make(map[string]int)

	if count, err := a.db.CountClassrooms(ctx); err == nil {
		stats["classrooms"] = count
	} else {
		a.logger.WithError(err).Warn("Failed to count classrooms in store stats")
	}
	if count, err := a.db.CountSchedules(ctx); err == nil {
		stats["schedules"] = count
	} else {
		a.logger.WithError(err).Warn("Failed to count schedules in store stats")
	}
	if count, err := a.db.CountFaculty(ctx); err == nil {
		stats["faculty"] = count
	} else {
		a.logger.WithError(err).Warn("Failed to count faculty in store stats")
	}

	return stats
}

// Run starts the HTTP server and background jobs.
//
// Graceful shutdown sequence (critical for data integrity):
//  1. Receive shutdown signal (SIGINT/SIGTERM)
//  2. Cancel context to signal background jobs to stop
//  3. Wait for background jobs to complete (session purge, backups, metrics)
//  4. Close resources in order (HTTP server, AI clients, database, rate limiters)
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel() // Ensure context is always canceled

	a.startBackgroundJobs(ctx)
	a.startHTTPServer()

	sig := a.waitForShutdownSignal()

	a.logger.WithField("signal", sig.String()).Info("Received shutdown signal")

	cancel()

	a.logger.Info("Waiting for background jobs to finish...")
	start := time.Now()
	a.wg.Wait()
	a.logger.WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("All background jobs completed")

	return a.shutdown()
}

// startBackgroundJobs starts all background goroutines tracked by WaitGroup.
func (a *Application) startBackgroundJobs(ctx context.Context) {
	a.wg.Go(func() {
		a.sessionPurge(ctx)
	})
	a.wg.Go(func() {
		a.updateStoreSizeMetrics(ctx)
	})
	if a.backupManager != nil {
		a.wg.Go(func() {
			a.backupLoop(ctx)
		})
	}
}

// startHTTPServer starts the HTTP server in a goroutine.
func (a *Application) startHTTPServer() {
	go func() {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.WithError(err).Error("HTTP server error")
		}
	}()
}

// waitForShutdownSignal blocks until SIGINT/SIGTERM is received.
func (a *Application) waitForShutdownSignal() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return <-quit
}

// shutdown performs graceful shutdown of HTTP server and resources.
// This method should be called AFTER background jobs have been stopped.
func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping HTTP server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
	}

	a.logger.Info("Closing resources...")

	if err := a.dispatcher.Close(); err != nil {
		a.logger.WithError(err).WithField("component", "ai_dispatcher").Error("Component close error")
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).WithField("component", "database").Error("Component close error")
	}

	if a.llmLimiter != nil {
		a.llmLimiter.Stop()
	}
	if a.userLimiter != nil {
		a.userLimiter.Stop()
	}

	sentry.Flush(2 * time.Second)

	if err := logger.Shutdown(shutdownCtx, a.logger); err != nil {
		a.logger.WithError(err).Warn("Logger shutdown timed out")
	}

	a.logger.Info("Shutdown complete")
	return nil
}

// sessionPurge deletes expired sessions on a fixed interval.
func (a *Application) sessionPurge(ctx context.Context) {
	a.logger.Debug("Session purge job started")
	defer a.logger.Debug("Session purge job stopped")

	select {
	case <-ctx.Done():
		return
	case <-time.After(config.SessionPurgeInitialDelay):
	}

	ticker := time.NewTicker(a.cfg.SessionPurgeInterval)
	defer ticker.Stop()

	a.runSessionPurge(ctx)
	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("Session purge received shutdown signal")
			return
		case <-ticker.C:
			a.runSessionPurge(ctx)
		}
	}
}

func (a *Application) runSessionPurge(ctx context.Context) {
	start := time.Now()

	deleted, err := a.db.PurgeExpiredSessions(ctx, time.Now())
	if err != nil {
		a.logger.WithError(err).Error("Session purge failed")
		sentry.CaptureExceptionWithContext(ctx, err)
		a.metrics.RecordJob("session_purge", "error", time.Since(start).Seconds())
		return
	}

	if deleted > 0 {
		a.logger.WithField("deleted", deleted).Info("Purged expired sessions")
	}
	a.metrics.RecordJob("session_purge", "success", time.Since(start).Seconds())
}

// backupLoop uploads store snapshots on a fixed interval.
func (a *Application) backupLoop(ctx context.Context) {
	a.logger.Debug("Backup job started")
	defer a.logger.Debug("Backup job stopped")

	select {
	case <-ctx.Done():
		return
	case <-time.After(config.BackupInitialDelay):
	}

	ticker := time.NewTicker(a.cfg.BackupInterval)
	defer ticker.Stop()

	a.runBackup(ctx)
	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("Backup job received shutdown signal")
			return
		case <-ticker.C:
			a.runBackup(ctx)
		}
	}
}

func (a *Application) runBackup(ctx context.Context) {
	uploaded, err := a.backupManager.Run(ctx)
	if err != nil {
		a.logger.WithError(err).Error("Store backup failed")
		sentry.CaptureExceptionWithContext(ctx, err)
		return
	}
	if uploaded {
		a.logger.Info("Store snapshot uploaded")
	} else {
		a.logger.Debug("Store unchanged, snapshot upload skipped")
	}
}

// updateStoreSizeMetrics periodically records store record counts to Prometheus.
func (a *Application) updateStoreSizeMetrics(ctx context.Context) {
	a.logger.Debug("Store metrics job started")
	defer a.logger.Debug("Store metrics job stopped")

	ticker := time.NewTicker(config.MetricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("Store metrics received shutdown signal")
			return
		case <-ticker.C:
			a.recordStoreSizeMetrics(ctx)
		}
	}
}

func (a *Application) recordStoreSizeMetrics(ctx context.Context) {
	if a.metrics == nil {
		return
	}

	classroomCount, _ := a.db.CountClassrooms(ctx)
	scheduleCount, _ := a.db.CountSchedules(ctx)
	facultyCount, _ := a.db.CountFaculty(ctx)

	a.metrics.SetStoreSize("classrooms", classroomCount)
	a.metrics.SetStoreSize("schedules", scheduleCount)
	a.metrics.SetStoreSize("faculty", facultyCount)
}

// rateLimitMiddleware applies the global limiter, then a per-client limiter.
// The per-client limiter is keyed by client IP so unauthenticated login
// attempts are throttled too.
func (a *Application) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.globalLimiter.Allow() {
			a.metrics.RecordRateLimiterDrop("global")
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "too many requests",
			})
			c.Abort()
			return
		}

		if !a.userLimiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", "5")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "too many requests",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// securityHeadersMiddleware adds security headers to responses.
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'")
		c.Header("X-Permitted-Cross-Domain-Policies", "none")
		c.Next()
	}
}

// loggingMiddleware logs HTTP requests with status-based log levels:
// 5xx=Error, 4xx=Warn, 404=Debug, 3xx/2xx=Debug.
func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = c.GetHeader("X-Request-ID")
		}
		if requestID == "" {
			requestID = c.GetHeader("X-Correlation-Id")
		}
		if requestID == "" {
			requestID = c.GetHeader("X-Correlation-ID")
		}
		if requestID != "" {
			ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		entry := log.WithField("http_method", method).
			WithField("http_path", path).
			WithField("http_status", status).
			WithField("duration_ms", duration.Milliseconds()).
			WithField("client_ip", c.ClientIP())

		if requestID != "" {
			entry = entry.WithRequestID(requestID)
		}

		if status >= 500 {
			entry.Error("HTTP request failed")
		} else if status >= 400 && status != 404 {
			entry.Warn("HTTP request rejected")
		} else if status == 404 {
			entry.Debug("HTTP request not found")
		} else {
			entry.Debug("HTTP request completed")
		}
	}
}
