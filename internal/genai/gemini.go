// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file contains the Gemini implementation of the Responder interface.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// geminiResponder generates free-form campus-assistant replies with Gemini.
// It implements the Responder interface.
type geminiResponder struct {
	client *genai.Client
	model  string
}

// newGeminiResponder creates a new Gemini-based responder.
// Returns nil if apiKey is empty (provider disabled).
func newGeminiResponder(ctx context.Context, apiKey, model string) (*geminiResponder, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	if model == "" {
		model = DefaultModels[ProviderGemini][0]
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiResponder{
		client: client,
		model:  model,
	}, nil
}

// Respond generates a reply for the user message using the persona prompt.
func (r *geminiResponder) Respond(ctx context.Context, message string) (string, error) {
	if r == nil || r.client == nil {
		return "", fmt.Errorf("gemini responder not initialized")
	}

	prompt := BuildPrompt(message)

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: 300, // Persona caps replies at ~150 words
	}

	start := time.Now()
	resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(prompt), config)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "reply generation API call failed",
			"provider", "gemini",
			"model", r.model,
			"message_length", len(message),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		var apierr genai.APIError
		if errors.As(err, &apierr) {
			return "", WrapError(fmt.Errorf("generate content failed: %w", err), ProviderGemini, apierr.Code)
		}
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from gemini")
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			reply.WriteString(part.Text)
		}
	}

	result := strings.TrimSpace(reply.String())
	if result == "" {
		return "", fmt.Errorf("empty response from gemini")
	}

	if resp.UsageMetadata != nil {
		slog.DebugContext(ctx, "reply generation completed",
			"provider", "gemini",
			"model", r.model,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
			"total_tokens", resp.UsageMetadata.TotalTokenCount,
			"duration_ms", duration.Milliseconds())
	}

	return result, nil
}

// IsEnabled returns true if the responder is initialized.
func (r *geminiResponder) IsEnabled() bool {
	return r != nil && r.client != nil
}

// Provider returns the provider type for this responder.
func (r *geminiResponder) Provider() Provider {
	return ProviderGemini
}

// Close releases resources.
// Safe to call on nil receiver.
func (r *geminiResponder) Close() error {
	if r == nil {
		return nil
	}
	// Note: genai.Client does not require explicit cleanup in current SDK version
	return nil
}
