package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	slogbetterstack "github.com/samber/slog-betterstack"
)

// Options configures optional log destinations beyond the primary writer.
type Options struct {
	// BetterStackToken enables remote log shipping when non-empty.
	BetterStackToken string
	// BetterStackEndpoint overrides the default ingesting host.
	BetterStackEndpoint string
	// Async configures the async pipeline used for remote shipping.
	Async AsyncOptions
}

// NewWithOptions creates a logger that writes JSON to w and, when a Better
// Stack token is configured, additionally ships records to Better Stack
// through an async pipeline so remote latency never blocks request paths.
// All handlers are wrapped in a ContextHandler for tracing-value extraction.
func NewWithOptions(level string, w io.Writer, opts Options) *Logger {
	logLevel := parseLevel(level)

	local := newJSONHandler(w, logLevel)

	var handler slog.Handler = local
	if opts.BetterStackToken != "" {
		remote := slogbetterstack.Option{
			Level:    logLevel,
			Token:    opts.BetterStackToken,
			Endpoint: opts.BetterStackEndpoint,
			Timeout:  10 * time.Second,
		}.NewBetterstackHandler()
		async := NewAsyncHandler(remote, opts.Async)
		handler = NewMultiHandler(local, async)
	}

	return &Logger{Logger: slog.New(NewContextHandler(handler))}
}

// Shutdown flushes any async handlers attached to the logger.
// Safe to call on loggers without async handlers.
func Shutdown(ctx context.Context, l *Logger) error {
	if l == nil {
		return nil
	}
	if flusher, ok := l.Handler().(interface{ Shutdown(context.Context) error }); ok {
		return flusher.Shutdown(ctx)
	}
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
