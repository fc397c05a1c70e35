// Package ctxutil carries per-request tracing values through contexts.
// Unexported key types keep the values collision-free across packages.
package ctxutil

import "context"

type (
	userIDKey    struct{}
	sessionIDKey struct{}
	requestIDKey struct{}
)

// WithUserID stamps the authenticated user's ID for rate limiting and logs.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserID returns the user ID, or "" when the request is unauthenticated.
func GetUserID(ctx context.Context) string {
	return stringValue(ctx, userIDKey{})
}

// WithSessionID stamps the session token's ID.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// GetSessionID returns the session ID, or "" when none is set.
func GetSessionID(ctx context.Context) string {
	return stringValue(ctx, sessionIDKey{})
}

// WithRequestID stamps the per-request correlation ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID returns the request ID and whether one was set.
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey{}).(string)
	return requestID, ok
}

// PreserveTracing copies the tracing values onto a fresh background context.
// Use it for work that must outlive the request's cancellation, like shared
// provider calls and post-response uploads. Only tracing values survive;
// deadlines and other parent values do not.
func PreserveTracing(ctx context.Context) context.Context {
	detached := context.Background()
	if userID := GetUserID(ctx); userID != "" {
		detached = WithUserID(detached, userID)
	}
	if sessionID := GetSessionID(ctx); sessionID != "" {
		detached = WithSessionID(detached, sessionID)
	}
	if requestID, ok := GetRequestID(ctx); ok && requestID != "" {
		detached = WithRequestID(detached, requestID)
	}
	return detached
}

func stringValue(ctx context.Context, key any) string {
	if s, ok := ctx.Value(key).(string); ok {
		return s
	}
	return ""
}
