// Package ratelimit implements the token bucket limiters used to
// throttle chat traffic and AI fallback calls.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a token bucket. Tokens refill continuously at a fixed
// per-second rate up to the burst capacity, and each permitted request
// spends one token. Safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	tokens   float64
	burst    float64
	rate     float64 // tokens per second
	lastTick time.Time
}

// New creates a limiter holding burst tokens that refills at rate
// tokens per second. The bucket starts full.
func New(burst, rate float64) *Limiter {
	return &Limiter{
		tokens:   burst,
		burst:    burst,
		rate:     rate,
		lastTick: time.Now(),
	}
}

// advance credits tokens for the time elapsed since the last call.
// Callers must hold mu.
func (l *Limiter) advance() {
	now := time.Now()
	l.tokens += now.Sub(l.lastTick).Seconds() * l.rate
	if l.tokens > l.burst {
		l.tokens = l.burst
	}
	l.lastTick = now
}

// Allow spends one token if available. Non-blocking.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance()
	if l.tokens < 1 {
		return false
	}
	l.tokens--
	return true
}

// Check reports whether a token is available without spending it.
// Check and Consume are individually atomic but not together; a caller
// combining them across several limiters must serialize the pair with
// its own lock.
func (l *Limiter) Check() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance()
	return l.tokens >= 1
}

// Consume spends one token. Meant to follow a passing Check; does
// nothing when the bucket is empty.
func (l *Limiter) Consume() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance()
	if l.tokens >= 1 {
		l.tokens--
	}
}

// Available returns the current token count.
func (l *Limiter) Available() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance()
	return l.tokens
}

// IsFull reports whether the bucket is back at burst capacity. The
// keyed limiter uses this to evict idle per-client buckets.
func (l *Limiter) IsFull() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance()
	return l.tokens >= l.burst
}
