// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file contains the chat-facing dispatcher. It turns every provider
// outcome into a user-facing string; callers never see an error.
package genai

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/askdsu/campus-assistant-go/internal/ctxutil"
	"github.com/askdsu/campus-assistant-go/internal/metrics"
	"github.com/askdsu/campus-assistant-go/internal/ratelimit"
)

// User-facing dispatcher messages. Every failure mode advertises the three
// locally answered intents so the user always has a next step.
const (
	// ReplyPrefix marks AI-generated replies in the chat transcript.
	ReplyPrefix = "🤖 **AI Assistant:**\n\n"

	// MessageNotConfigured is returned without a provider call when no
	// API key is configured.
	MessageNotConfigured = "I'm an AI assistant, but I'm currently not configured. Ask me about free classrooms, library status, or faculty locations - I can help with those!"

	// MessageBadCredentials is returned when the provider rejects the API key.
	MessageBadCredentials = "AI is not properly configured. Please check the API key. Meanwhile, ask me about classrooms, library, or faculty!"

	// MessageQuotaExceeded is returned when the provider reports quota exhaustion.
	MessageQuotaExceeded = "AI is currently at capacity. Try asking about free classrooms, library status, or faculty locations instead!"

	// MessageGenericFailure is the catch-all for every other provider failure.
	MessageGenericFailure = "I couldn't process that with AI right now, but I can help you find free classrooms, check library status, or locate faculty. What do you need?"

	// MessageRateLimited is returned when the per-user LLM budget is spent.
	MessageRateLimited = "You've used up your AI questions for now. Ask me about free classrooms, library status, or faculty locations in the meantime!"
)

// Dispatcher answers chat messages no local module claimed.
// Dispatch never returns an error; failures become user-facing strings.
type Dispatcher struct {
	responder Responder
	limiter   *ratelimit.LLMRateLimiter
	metrics   *metrics.Metrics
	timeout   time.Duration
	sf        singleflight.Group
}

// NewDispatcher creates a dispatcher over the given responder chain.
// responder may be nil (no provider configured); limiter and m are optional.
func NewDispatcher(responder Responder, limiter *ratelimit.LLMRateLimiter, m *metrics.Metrics, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		responder: responder,
		limiter:   limiter,
		metrics:   m,
		timeout:   timeout,
	}
}

// IsEnabled returns true if at least one provider is configured.
func (d *Dispatcher) IsEnabled() bool {
	return d != nil && d.responder != nil && d.responder.IsEnabled()
}

// Dispatch generates an AI reply for the message.
// The returned string is always safe to show the user.
func (d *Dispatcher) Dispatch(ctx context.Context, message string) string {
	if !d.IsEnabled() {
		return MessageNotConfigured
	}

	if d.limiter != nil {
		userID := ctxutil.GetUserID(ctx)
		if !d.limiter.Allow(userID) {
			slog.InfoContext(ctx, "AI request dropped by rate limiter",
				"user_id", userID)
			return MessageRateLimited
		}
	}

	// Identical in-flight prompts share one provider call. The shared call
	// runs on a detached context so the winning caller's cancellation does
	// not fail everyone waiting on the same prompt.
	reply, err, shared := d.sf.Do(message, func() (any, error) {
		callCtx := ctxutil.PreserveTracing(ctx)
		if d.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, d.timeout)
			defer cancel()
		}
		return d.responder.Respond(callCtx, message)
	})
	if shared && d.metrics != nil {
		d.metrics.RecordSingleflightDedup("ai_fallback")
	}

	if err != nil {
		return classifyFailure(ctx, err)
	}

	text, ok := reply.(string)
	if !ok || text == "" {
		return MessageGenericFailure
	}
	return ReplyPrefix + text
}

// Close releases the underlying responder chain.
func (d *Dispatcher) Close() error {
	if d == nil || d.responder == nil {
		return nil
	}
	return d.responder.Close()
}

// classifyFailure maps a provider error to the user-facing message.
// Credential problems are checked before quota since an invalid key can
// also surface as a 4xx with misleading wording.
func classifyFailure(ctx context.Context, err error) string {
	switch {
	case IsCredentialError(err):
		slog.WarnContext(ctx, "AI dispatch failed: bad credentials", "error", err)
		return MessageBadCredentials
	case IsQuotaError(err):
		slog.WarnContext(ctx, "AI dispatch failed: quota exhausted", "error", err)
		return MessageQuotaExceeded
	default:
		slog.WarnContext(ctx, "AI dispatch failed", "error", err)
		return MessageGenericFailure
	}
}
