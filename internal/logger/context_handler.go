// Package logger provides structured logging utilities for the application.
package logger

import (
	"context"
	"log/slog"

	"github.com/askdsu/campus-assistant-go/internal/ctxutil"
)

// ContextHandler decorates another handler and stamps every record with
// the tracing values carried in the request context, so call sites never
// pass user_id or request_id by hand.
type ContextHandler struct {
	next slog.Handler
}

// NewContextHandler wraps next in a ContextHandler.
func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle adds user_id, session_id and request_id from ctx when present.
// The context is read for values only; cancellation does not stop the
// record, per the slog.Handler contract.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if userID := ctxutil.GetUserID(ctx); userID != "" {
		r.AddAttrs(slog.String("user_id", userID))
	}
	if sessionID := ctxutil.GetSessionID(ctx); sessionID != "" {
		r.AddAttrs(slog.String("session_id", sessionID))
	}
	if requestID, ok := ctxutil.GetRequestID(ctx); ok && requestID != "" {
		r.AddAttrs(slog.String("request_id", requestID))
	}
	return h.next.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}

// Shutdown forwards the flush to the wrapped handler when it supports
// one, so logger.Shutdown reaches the async pipeline through this
// decorator.
func (h *ContextHandler) Shutdown(ctx context.Context) error {
	if flusher, ok := h.next.(interface{ Shutdown(context.Context) error }); ok {
		return flusher.Shutdown(ctx)
	}
	return nil
}
