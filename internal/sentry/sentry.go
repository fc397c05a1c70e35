// Package sentry configures error tracking. It accepts either a full Sentry
// DSN or a Better Stack Errors token, from which a DSN is derived.
package sentry

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config selects the error tracking destination. Leaving both DSN and
// Token empty disables tracking entirely.
type Config struct {
	// DSN is a full Sentry DSN and wins over Token/Host when set.
	DSN string

	// Token is a Better Stack Errors application token.
	Token string

	// Host is the Better Stack ingesting host, required alongside Token.
	Host string

	// Environment tags events with the deployment environment.
	Environment string

	// Release tags events with the running version.
	Release string

	// SampleRate is the fraction of errors reported; zero means report all.
	SampleRate float64

	// Debug turns on SDK debug logging.
	Debug bool
}

// Initialize sets up the global Sentry client. A zero Config is a no-op.
func Initialize(cfg Config) error {
	dsn, err := cfg.dsn()
	if err != nil {
		return err
	}
	if dsn == "" {
		return nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
	})
}

func (cfg Config) dsn() (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.Token == "" {
		return "", nil
	}
	if cfg.Host == "" {
		return "", fmt.Errorf("sentry host is required when token is provided")
	}
	// The SDK insists on a project ID in the path; Better Stack ignores it.
	return fmt.Sprintf("https://%s@%s/1", cfg.Token, cfg.Host), nil
}

// IsEnabled reports whether a client was initialized.
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// Flush blocks until buffered events are delivered or the timeout passes.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// CaptureExceptionWithContext reports err on the hub bound to ctx, falling
// back to the global hub for background jobs with no request scope.
func CaptureExceptionWithContext(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}
