package ratelimit

import (
	"time"

	"github.com/askdsu/campus-assistant-go/internal/metrics"
)

// LLMLimiterConfig configures an LLMRateLimiter instance.
type LLMLimiterConfig struct {
	// BurstTokens is the maximum number of requests a user can make in a burst.
	BurstTokens float64

	// RefillPerHour is how many tokens a user gains back per hour.
	RefillPerHour float64

	// DailyLimit caps requests per rolling 24h window (0 = disabled).
	DailyLimit int

	// CleanupPeriod is how often inactive user limiters are removed.
	CleanupPeriod time.Duration

	// Metrics is an optional reporter for drop and active-count metrics.
	Metrics *metrics.Metrics
}

// LLMRateLimiter tracks per-user LLM API usage with hourly and daily limits.
// This is separate from the general user rate limiter to control expensive AI
// fallback calls independently from locally answered messages.
type LLMRateLimiter struct {
	kl    *KeyedLimiter
	burst float64
}

// NewLLMRateLimiter creates a new LLM rate limiter with per-hour limits only.
// Burst capacity equals the hourly allotment and no daily cap applies.
//
// Example:
//
//	limiter := NewLLMRateLimiter(50, 5*time.Minute, metrics)
//	defer limiter.Stop()
//
//	if limiter.Allow("user123") {
//	    // Make LLM API call
//	}
func NewLLMRateLimiter(maxPerHour float64, cleanup time.Duration, m *metrics.Metrics) *LLMRateLimiter {
	return NewLLMRateLimiterWithConfig(LLMLimiterConfig{
		BurstTokens:   maxPerHour,
		RefillPerHour: maxPerHour,
		CleanupPeriod: cleanup,
		Metrics:       m,
	})
}

// NewLLMRateLimiterWithConfig creates an LLM rate limiter with independent
// burst capacity, hourly refill and an optional rolling daily cap.
func NewLLMRateLimiterWithConfig(cfg LLMLimiterConfig) *LLMRateLimiter {
	return &LLMRateLimiter{
		kl: NewKeyedLimiter(KeyedConfig{
			Name:          "llm",
			Burst:         cfg.BurstTokens,
			RefillRate:    cfg.RefillPerHour / 3600.0,
			DailyLimit:    cfg.DailyLimit,
			CleanupPeriod: cfg.CleanupPeriod,
			Metrics:       cfg.Metrics,
		}),
		burst: cfg.BurstTokens,
	}
}

// Allow checks if an LLM request from userID is allowed under the rate limit.
// Returns true if allowed (token consumed), false if rate limit exceeded.
func (llm *LLMRateLimiter) Allow(userID string) bool {
	if userID == "" {
		return true
	}
	return llm.kl.Allow(userID)
}

// GetAvailable returns the number of remaining tokens for a user.
// Returns the burst capacity if the user has no limiter yet.
func (llm *LLMRateLimiter) GetAvailable(userID string) float64 {
	if userID == "" {
		return llm.burst
	}
	return llm.kl.GetAvailable(userID)
}

// GetDailyRemaining returns the remaining daily quota for a user.
// Returns -1 if no daily limit is configured.
func (llm *LLMRateLimiter) GetDailyRemaining(userID string) int {
	return llm.kl.GetDailyRemaining(userID)
}

// GetActiveCount returns the current number of active user limiters.
func (llm *LLMRateLimiter) GetActiveCount() int {
	return llm.kl.GetActiveCount()
}

// Stop gracefully stops the cleanup goroutine.
// Safe to call multiple times.
func (llm *LLMRateLimiter) Stop() {
	llm.kl.Stop()
}
