// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file contains the fallback wrapper for cross-provider failover.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/askdsu/campus-assistant-go/internal/metrics"
)

// FallbackResponder walks an ordered chain of Responders.
// It implements three-layer fallback:
// 1. Model retry with backoff (same responder)
// 2. Chain fallback (next model, then next provider)
// 3. The caller degrades gracefully when the whole chain fails
type FallbackResponder struct {
	chain       []Responder
	retryConfig RetryConfig
	metrics     *metrics.Metrics
}

// NewFallbackResponder creates a fallback-enabled responder over the chain.
// The chain is tried in order; nil entries are skipped. Metrics are optional.
func NewFallbackResponder(cfg RetryConfig, m *metrics.Metrics, chain ...Responder) *FallbackResponder {
	var filtered []Responder
	for _, r := range chain {
		if r != nil && r.IsEnabled() {
			filtered = append(filtered, r)
		}
	}
	return &FallbackResponder{
		chain:       filtered,
		retryConfig: cfg,
		metrics:     m,
	}
}

// Respond tries each responder in the chain with retry until one succeeds.
func (f *FallbackResponder) Respond(ctx context.Context, message string) (string, error) {
	if f == nil || len(f.chain) == 0 {
		return "", errors.New("no responder configured")
	}

	var lastErr error
	for i, responder := range f.chain {
		start := time.Now()
		provider := responder.Provider()

		result, err := f.respondWithRetry(ctx, responder, message)
		if err == nil {
			f.recordAttempt(provider, "success", start)
			if i > 0 {
				slog.InfoContext(ctx, "reply served by fallback responder",
					"provider", provider,
					"chain_position", i+1)
			}
			return result, nil
		}

		lastErr = err
		action := ClassifyError(err)
		f.recordAttempt(provider, errorStatus(err), start)

		slog.WarnContext(ctx, "responder failed",
			"provider", provider,
			"chain_position", i+1,
			"error", err,
			"action", action,
			"duration", time.Since(start))

		// Credential errors on one provider don't poison the rest of the
		// chain; only a cancelled context stops the walk.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	slog.ErrorContext(ctx, "all responders failed",
		"chain_size", len(f.chain),
		"error", lastErr)
	return "", fmt.Errorf("all providers failed: %w", lastErr)
}

// respondWithRetry attempts generation with retry logic.
func (f *FallbackResponder) respondWithRetry(ctx context.Context, responder Responder, message string) (string, error) {
	var lastErr error

	for attempt := range f.retryConfig.MaxAttempts {
		// Check context before attempting
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		result, err := f.respondOnce(ctx, responder, message)
		if err == nil {
			return result, nil
		}

		lastErr = err
		action := ClassifyError(err)

		// Don't retry if error is not retryable
		if action != ActionRetry {
			return "", err
		}

		// Last attempt, don't sleep
		if attempt == f.retryConfig.MaxAttempts-1 {
			break
		}

		// Calculate backoff with jitter
		backoff := CalculateBackoff(attempt+1, f.retryConfig.InitialDelay, f.retryConfig.MaxDelay)

		// Check remaining time budget with actual backoff
		if !HasSufficientBudget(ctx, backoff) {
			return "", fmt.Errorf("timeout during retry: %w", lastErr)
		}

		slog.DebugContext(ctx, "retrying reply generation",
			"provider", responder.Provider(),
			"attempt", attempt+1,
			"backoff", backoff,
			"error", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}

	return "", lastErr
}

// respondOnce runs a single generation attempt under the per-call timeout.
func (f *FallbackResponder) respondOnce(ctx context.Context, responder Responder, message string) (string, error) {
	if f.retryConfig.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.retryConfig.CallTimeout)
		defer cancel()
	}
	return responder.Respond(ctx, message)
}

// IsEnabled returns true if at least one responder in the chain is enabled.
func (f *FallbackResponder) IsEnabled() bool {
	if f == nil {
		return false
	}
	for _, r := range f.chain {
		if r.IsEnabled() {
			return true
		}
	}
	return false
}

// Provider returns the primary provider type.
func (f *FallbackResponder) Provider() Provider {
	if f == nil || len(f.chain) == 0 {
		return ""
	}
	return f.chain[0].Provider()
}

// Close closes every responder in the chain.
func (f *FallbackResponder) Close() error {
	if f == nil {
		return nil
	}

	var errs []error
	for _, r := range f.chain {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func (f *FallbackResponder) recordAttempt(provider Provider, status string, start time.Time) {
	if f.metrics == nil {
		return
	}
	f.metrics.RecordAIRequest(string(provider), status, time.Since(start).Seconds())
}

// errorStatus maps an error to a metric status label.
// Provides fine-grained error classification for better observability.
func errorStatus(err error) string {
	if err == nil {
		return "success"
	}

	// Check for context errors first
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}

	// Check for wrapped LLMError with status code
	var llmErr *LLMError
	if errors.As(err, &llmErr) {
		switch {
		case llmErr.StatusCode == http.StatusTooManyRequests:
			return "rate_limit"
		case llmErr.StatusCode >= 500:
			return "server_error"
		case llmErr.StatusCode == http.StatusUnauthorized || llmErr.StatusCode == http.StatusForbidden:
			return "credentials"
		case llmErr.StatusCode == http.StatusBadRequest:
			return "invalid_request"
		}
	}

	switch {
	case IsCredentialError(err):
		return "credentials"
	case IsQuotaError(err):
		return "quota"
	case IsRetryable(err):
		return "transient_error"
	default:
		return "error"
	}
}
