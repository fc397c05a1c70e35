// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file contains the unified OpenAI-compatible implementation of the
// Responder interface. It works with any OpenAI-compatible provider
// (Groq, Cerebras) via custom BaseURL.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// openaiResponder generates free-form campus-assistant replies through an
// OpenAI-compatible chat completion API. It implements the Responder interface.
type openaiResponder struct {
	client   openai.Client
	model    string
	provider Provider
}

// newOpenAIResponder creates a new OpenAI-compatible responder.
// Returns nil if apiKey is empty (provider disabled).
//
// Parameters:
//   - provider: The provider type (ProviderGroq, ProviderCerebras)
//   - apiKey: The API key for the provider
//   - model: The model name to use (uses provider defaults if empty)
func newOpenAIResponder(_ context.Context, provider Provider, apiKey, model string) (*openaiResponder, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	baseURL, ok := ProviderEndpoint[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported OpenAI-compatible provider: %s", provider)
	}

	if model == "" {
		defaults := DefaultModels[provider]
		if len(defaults) == 0 {
			return nil, fmt.Errorf("no default model for provider: %s", provider)
		}
		model = defaults[0]
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &openaiResponder{
		client:   client,
		model:    model,
		provider: provider,
	}, nil
}

// Respond generates a reply for the user message using the persona prompt.
func (r *openaiResponder) Respond(ctx context.Context, message string) (string, error) {
	if r == nil {
		return "", fmt.Errorf("responder not initialized")
	}

	params := openai.ChatCompletionNewParams{
		Model: r.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(PersonaPrompt),
			openai.UserMessage(message),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(300), // Persona caps replies at ~150 words
	}

	start := time.Now()
	resp, err := r.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "reply generation API call failed",
			"provider", r.provider,
			"model", r.model,
			"message_length", len(message),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		var apierr *openai.Error
		if errors.As(err, &apierr) {
			return "", WrapError(fmt.Errorf("chat completion failed: %w", err), r.provider, apierr.StatusCode)
		}
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from %s", r.provider)
	}

	result := strings.TrimSpace(resp.Choices[0].Message.Content)
	if result == "" {
		return "", fmt.Errorf("empty response from %s", r.provider)
	}

	if resp.Usage.TotalTokens > 0 {
		slog.DebugContext(ctx, "reply generation completed",
			"provider", r.provider,
			"model", r.model,
			"input_tokens", resp.Usage.PromptTokens,
			"output_tokens", resp.Usage.CompletionTokens,
			"total_tokens", resp.Usage.TotalTokens,
			"duration_ms", duration.Milliseconds())
	}

	return result, nil
}

// IsEnabled returns true if the responder is initialized.
func (r *openaiResponder) IsEnabled() bool {
	return r != nil
}

// Provider returns the provider type for this responder.
func (r *openaiResponder) Provider() Provider {
	if r == nil {
		return ""
	}
	return r.provider
}

// Close releases resources.
// Safe to call on nil receiver.
func (r *openaiResponder) Close() error {
	if r == nil {
		return nil
	}
	// openai-go client doesn't require cleanup
	return nil
}
