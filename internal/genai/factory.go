// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file contains factory functions for building the responder chain.
package genai

import (
	"context"
	"log/slog"

	"github.com/askdsu/campus-assistant-go/internal/config"
	"github.com/askdsu/campus-assistant-go/internal/metrics"
)

// CreateResponder builds the fallback responder chain from configuration.
//
// Provider selection logic:
//  1. Providers are tried in the order given by cfg.Providers.
//  2. Each provider contributes its full model list to the chain.
//  3. Each chain entry gets retry logic (configured in RetryConfig).
//  4. Returns nil if no providers/models are configured.
func CreateResponder(ctx context.Context, cfg LLMConfig, m *metrics.Metrics) (Responder, error) {
	var chain []Responder

	addResponders := func(provider Provider) {
		pc := cfg.GetProviderConfig(provider)
		if pc == nil || pc.APIKey == "" {
			return
		}

		models := pc.Models
		if len(models) == 0 {
			models = DefaultModels[provider]
		}

		for _, model := range models {
			var (
				r   Responder
				err error
			)
			if provider.IsOpenAICompatible() {
				r, err = newOpenAIResponder(ctx, provider, pc.APIKey, model)
			} else {
				r, err = newGeminiResponder(ctx, pc.APIKey, model)
			}
			if err != nil {
				slog.WarnContext(ctx, "failed to create responder",
					"provider", provider,
					"model", model,
					"error", err)
				continue
			}
			chain = append(chain, r)
		}
	}

	providers := cfg.Providers
	if len(providers) == 0 {
		providers = DefaultProviders
	}
	for _, p := range providers {
		addResponders(p)
	}

	if len(chain) == 0 {
		slog.InfoContext(ctx, "no LLM provider configured for reply generation")
		return nil, nil
	}

	slog.InfoContext(ctx, "responder chain configured",
		"primary", chain[0].Provider(),
		"chain_size", len(chain))

	return NewFallbackResponder(cfg.RetryConfig, m, chain...), nil
}

// DefaultLLMConfig returns a default LLM configuration.
// API keys must be provided separately.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Providers:   DefaultProviders,
		Gemini:      ProviderConfig{Models: DefaultModels[ProviderGemini]},
		Groq:        ProviderConfig{Models: DefaultModels[ProviderGroq]},
		Cerebras:    ProviderConfig{Models: DefaultModels[ProviderCerebras]},
		RetryConfig: DefaultRetryConfig(),
	}
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  DefaultMaxRetryAttempts,
		InitialDelay: DefaultInitialRetryDelay,
		MaxDelay:     DefaultMaxRetryDelay,
		CallTimeout:  config.AIRequest,
	}
}
