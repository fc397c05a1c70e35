package genai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/askdsu/campus-assistant-go/internal/ctxutil"
	"github.com/askdsu/campus-assistant-go/internal/ratelimit"
)

// stubResponder is a canned Responder for dispatcher tests.
type stubResponder struct {
	mu      sync.Mutex
	reply   string
	err     error
	delay   time.Duration
	calls   int
	enabled bool
}

func (s *stubResponder) Respond(ctx context.Context, _ string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubResponder) IsEnabled() bool { return s.enabled }
func (s *stubResponder) Close() error    { return nil }
func (s *stubResponder) Provider() Provider {
	return Provider("stub")
}

func (s *stubResponder) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestDispatch_NotConfigured(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(nil, nil, nil, 0)
	got := d.Dispatch(context.Background(), "what's up")
	if got != MessageNotConfigured {
		t.Errorf("Expected not-configured message, got %q", got)
	}

	// Disabled responder behaves the same.
	d = NewDispatcher(&stubResponder{enabled: false}, nil, nil, 0)
	if got := d.Dispatch(context.Background(), "hello"); got != MessageNotConfigured {
		t.Errorf("Expected not-configured message for disabled responder, got %q", got)
	}
}

func TestDispatch_SuccessPrefixesReply(t *testing.T) {
	t.Parallel()

	stub := &stubResponder{reply: "Campus life is great, fr.", enabled: true}
	d := NewDispatcher(stub, nil, nil, 0)

	got := d.Dispatch(context.Background(), "tell me about campus life")
	if !strings.HasPrefix(got, ReplyPrefix) {
		t.Errorf("Expected reply prefix, got %q", got)
	}
	if !strings.Contains(got, "Campus life is great, fr.") {
		t.Errorf("Expected generated text in reply, got %q", got)
	}
}

func TestDispatch_ClassifiesFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "credential error",
			err:      errors.New("API_KEY_INVALID: check your key"),
			expected: MessageBadCredentials,
		},
		{
			name:     "quota error",
			err:      errors.New("quota exceeded for gemini-2.5-flash"),
			expected: MessageQuotaExceeded,
		},
		{
			name:     "network error",
			err:      errors.New("connection refused"),
			expected: MessageGenericFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stub := &stubResponder{err: tt.err, enabled: true}
			d := NewDispatcher(stub, nil, nil, 0)

			got := d.Dispatch(context.Background(), tt.name)
			if got != tt.expected {
				t.Errorf("Dispatch = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDispatch_NeverPanicsOrErrors(t *testing.T) {
	t.Parallel()

	// A nil dispatcher still answers.
	var d *Dispatcher
	if got := d.Dispatch(context.Background(), "hi"); got != MessageNotConfigured {
		t.Errorf("Expected not-configured message from nil dispatcher, got %q", got)
	}
}

func TestDispatch_RateLimited(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.NewLLMRateLimiter(1, time.Minute, nil)
	defer limiter.Stop()

	stub := &stubResponder{reply: "ok", enabled: true}
	d := NewDispatcher(stub, limiter, nil, 0)

	ctx := ctxutil.WithUserID(context.Background(), "user-1")

	// First request consumes the only token.
	if got := d.Dispatch(ctx, "first"); !strings.HasPrefix(got, ReplyPrefix) {
		t.Fatalf("Expected generated reply for first request, got %q", got)
	}
	// Second request is dropped before reaching the provider.
	if got := d.Dispatch(ctx, "second"); got != MessageRateLimited {
		t.Errorf("Expected rate-limited message, got %q", got)
	}
	if stub.callCount() != 1 {
		t.Errorf("Expected 1 provider call, got %d", stub.callCount())
	}
}

func TestDispatch_DeduplicatesIdenticalPrompts(t *testing.T) {
	t.Parallel()

	stub := &stubResponder{reply: "shared answer", delay: 50 * time.Millisecond, enabled: true}
	d := NewDispatcher(stub, nil, nil, 0)

	const workers = 4
	var wg sync.WaitGroup
	replies := make([]string, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			replies[i] = d.Dispatch(context.Background(), "same question")
		}()
	}
	wg.Wait()

	for i, reply := range replies {
		if !strings.Contains(reply, "shared answer") {
			t.Errorf("Worker %d got unexpected reply %q", i, reply)
		}
	}
	if stub.callCount() >= workers {
		t.Errorf("Expected deduplicated provider calls, got %d for %d workers", stub.callCount(), workers)
	}
}
