// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file holds the shared types and defaults for the responder chain.
//
// Gemini speaks its own SDK (google.golang.org/genai); Groq and Cerebras are
// OpenAI-compatible and share one implementation over openai-go. Failover is
// layered: retry the model, then the provider's next model, then the next
// provider.
package genai

import (
	"context"
	"time"
)

// Provider names an LLM backend.
type Provider string

const (
	ProviderGemini   Provider = "gemini"
	ProviderGroq     Provider = "groq"
	ProviderCerebras Provider = "cerebras"
)

// ProviderEndpoint maps each OpenAI-compatible provider to its base URL.
// Gemini is absent because it goes through its own SDK.
var ProviderEndpoint = map[Provider]string{
	ProviderGroq:     "https://api.groq.com/openai/v1/",
	ProviderCerebras: "https://api.cerebras.ai/v1/",
}

// IsOpenAICompatible reports whether p is served through the openai-go client.
func (p Provider) IsOpenAICompatible() bool {
	_, ok := ProviderEndpoint[p]
	return ok
}

// Responder generates a free-form assistant reply for one user message.
// The fallback chain, and each concrete provider, implement it.
type Responder interface {
	Respond(ctx context.Context, message string) (string, error)
	IsEnabled() bool
	Close() error
	Provider() Provider
}

// RetryConfig bounds the per-responder retry loop. Backoff is exponential
// with full jitter.
type RetryConfig struct {
	// MaxAttempts counts the initial call, so 2 means one retry.
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	// CallTimeout bounds each individual generation call. Zero means
	// the attempt runs under the caller's deadline alone.
	CallTimeout time.Duration
}

// ProviderConfig is one provider's key and ordered model chain,
// primary first.
type ProviderConfig struct {
	APIKey string
	Models []string
}

// LLMConfig selects and configures the providers the chain walks, in order.
type LLMConfig struct {
	Providers   []Provider
	Gemini      ProviderConfig
	Groq        ProviderConfig
	Cerebras    ProviderConfig
	RetryConfig RetryConfig
}

// GetProviderConfig returns the config slot for p, or nil for unknown
// providers.
func (c *LLMConfig) GetProviderConfig(p Provider) *ProviderConfig {
	switch p {
	case ProviderGemini:
		return &c.Gemini
	case ProviderGroq:
		return &c.Groq
	case ProviderCerebras:
		return &c.Cerebras
	default:
		return nil
	}
}

// DefaultModels holds each provider's model chain when none is configured.
// The flash/instant variants keep chat latency tolerable on fallback.
var DefaultModels = map[Provider][]string{
	ProviderGemini:   {"gemini-2.5-flash", "gemini-2.5-flash-lite"},
	ProviderGroq:     {"llama-3.3-70b-versatile", "llama-3.1-8b-instant"},
	ProviderCerebras: {"llama-3.3-70b", "llama-3.1-8b"},
}

// DefaultProviders is the walk order when AI_PROVIDERS is unset.
var DefaultProviders = []Provider{ProviderGemini, ProviderGroq, ProviderCerebras}

const (
	DefaultMaxRetryAttempts  = 2
	DefaultInitialRetryDelay = 500 * time.Millisecond
	DefaultMaxRetryDelay     = 3 * time.Second
)
