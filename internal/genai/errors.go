// Package genai provides integration with LLM APIs (Gemini, Groq, and Cerebras).
// This file classifies provider errors into retry, fallback, and fail actions.
package genai

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// ErrorAction is the decision the fallback chain takes after a failure.
type ErrorAction int

const (
	// ActionRetry retries the same responder after backoff.
	ActionRetry ErrorAction = iota
	// ActionFallback moves straight to the next responder in the chain.
	ActionFallback
	// ActionFail aborts the current responder without retrying.
	ActionFail
)

func (a ErrorAction) String() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionFallback:
		return "fallback"
	case ActionFail:
		return "fail"
	default:
		return "unknown"
	}
}

// LLMError carries the HTTP status a provider returned so classification
// can use the code instead of guessing from message text.
type LLMError struct {
	Err        error
	StatusCode int
	Provider   Provider
	Retryable  bool
}

func (e *LLMError) Error() string {
	if e.StatusCode > 0 {
		return e.Err.Error() + " (status: " + strconv.Itoa(e.StatusCode) + ")"
	}
	return e.Err.Error()
}

func (e *LLMError) Unwrap() error {
	return e.Err
}

// WrapError attaches provider and status information to a provider failure.
func WrapError(err error, provider Provider, statusCode int) error {
	if err == nil {
		return nil
	}
	return &LLMError{
		Err:        err,
		StatusCode: statusCode,
		Provider:   provider,
		Retryable:  ClassifyError(err) == ActionRetry,
	}
}

// messagePatterns map substrings of provider error text to actions, checked
// in order. Quota exhaustion outranks plain rate limiting: a spent quota
// will not recover within a retry window, so the chain moves on.
var messagePatterns = []struct {
	action    ErrorAction
	fragments []string
}{
	{ActionFallback, []string{"quota", "daily limit", "monthly limit", "billing"}},
	{ActionRetry, []string{"rate limit", "too many requests", "resource_exhausted", "429"}},
	{ActionRetry, []string{"unavailable", "500", "502", "503", "504", "internal server error", "bad gateway", "gateway timeout", "overloaded", "capacity"}},
	{ActionRetry, []string{"408", "409", "timeout", "deadline", "connection"}},
	{ActionFail, []string{"400", "invalid", "bad request", "malformed"}},
	{ActionFail, []string{"401", "unauthorized", "unauthenticated", "invalid api key"}},
	{ActionFail, []string{"403", "forbidden", "permission denied"}},
	{ActionFail, []string{"404", "not found"}},
	{ActionFail, []string{"422", "unprocessable"}},
}

// ClassifyError decides what the chain does with a provider failure.
// Status codes from a wrapped LLMError win over message-text matching;
// unrecognized errors default to retry.
func ClassifyError(err error) ErrorAction {
	if err == nil {
		return ActionFail
	}
	if errors.Is(err, context.Canceled) {
		return ActionFail
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ActionRetry
	}

	var llmErr *LLMError
	if errors.As(err, &llmErr) && llmErr.StatusCode > 0 {
		return classifyStatusCode(llmErr.StatusCode)
	}

	msg := strings.ToLower(err.Error())
	for _, p := range messagePatterns {
		if containsAny(msg, p.fragments...) {
			return p.action
		}
	}
	return ActionRetry
}

func classifyStatusCode(statusCode int) ErrorAction {
	switch {
	case statusCode == http.StatusTooManyRequests,
		statusCode == http.StatusRequestTimeout,
		statusCode == http.StatusConflict,
		statusCode >= 500:
		return ActionRetry
	case statusCode >= 400 && statusCode < 500:
		return ActionFail
	default:
		return ActionRetry
	}
}

// IsRetryable reports whether the failure is transient.
func IsRetryable(err error) bool {
	return ClassifyError(err) == ActionRetry
}

// IsPermanent reports whether retrying the same responder is pointless.
func IsPermanent(err error) bool {
	return ClassifyError(err) == ActionFail
}

// IsCredentialError reports whether the provider rejected the API key.
// Drives the user-facing "check the API key" message.
func IsCredentialError(err error) bool {
	if err == nil {
		return false
	}

	var llmErr *LLMError
	if errors.As(err, &llmErr) {
		if llmErr.StatusCode == http.StatusUnauthorized || llmErr.StatusCode == http.StatusForbidden {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	return containsAny(msg, "api_key_invalid", "invalid api key", "401", "unauthorized", "unauthenticated", "permission denied")
}

// IsQuotaError reports whether the provider is out of quota or capacity.
// Drives the user-facing "at capacity" message.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return containsAny(msg, "quota", "daily limit", "monthly limit", "billing", "resource_exhausted", "429", "too many requests")
}

func containsAny(s string, fragments ...string) bool {
	for _, fragment := range fragments {
		if strings.Contains(s, fragment) {
			return true
		}
	}
	return false
}
