// Package errors defines the sentinel errors shared across the
// application. Callers match them with errors.Is.
package errors

import "errors"

var (
	// ErrNotFound marks lookups that matched nothing.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput marks rejected user input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized marks a missing or unknown session token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionExpired marks a session token past its expiry.
	ErrSessionExpired = errors.New("session expired")
)
