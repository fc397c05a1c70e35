package sentry

import (
	"testing"
	"time"
)

// Sentry keeps a process-global hub, so tests touching Initialize do
// not run in parallel.

func TestInitializeDisabledWithoutCredentials(t *testing.T) {
	if err := Initialize(Config{}); err != nil {
		t.Fatalf("no DSN and no token should be a silent no-op, got %v", err)
	}
}

func TestInitializeTokenRequiresHost(t *testing.T) {
	if err := Initialize(Config{Token: "bs-token"}); err == nil {
		t.Fatal("a token without an ingesting host should be rejected")
	}
}

func TestInitializeWithTokenAndHost(t *testing.T) {
	err := Initialize(Config{
		Token:       "bs-token",
		Host:        "errors.betterstack.com",
		Environment: "test",
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !IsEnabled() {
		t.Error("IsEnabled should report true once initialized")
	}
	Flush(time.Second)
}

func TestInitializeWithFullDSN(t *testing.T) {
	// A DSN wins over token/host assembly.
	err := Initialize(Config{
		DSN:   "https://key@errors.betterstack.com/1",
		Token: "ignored",
	})
	if err != nil {
		t.Fatalf("Initialize with DSN: %v", err)
	}
	if !IsEnabled() {
		t.Error("IsEnabled should report true once initialized")
	}
	Flush(time.Second)
}

func TestFlushWithNothingPending(t *testing.T) {
	if !Flush(100 * time.Millisecond) {
		t.Error("Flush with no pending events should succeed immediately")
	}
}
