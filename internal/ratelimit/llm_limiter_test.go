package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func newTestLLMLimiter(burst, refillPerHour float64, daily int) *LLMRateLimiter {
	return NewLLMRateLimiterWithConfig(LLMLimiterConfig{
		BurstTokens:   burst,
		RefillPerHour: refillPerHour,
		DailyLimit:    daily,
		CleanupPeriod: time.Hour,
	})
}

func TestLLMLimiterBurst(t *testing.T) {
	t.Parallel()

	l := newTestLLMLimiter(2, 2, 0)
	defer l.Stop()

	if !l.Allow("student-1") || !l.Allow("student-1") {
		t.Fatal("requests within burst should pass")
	}
	if l.Allow("student-1") {
		t.Error("request beyond burst should be denied")
	}
}

func TestLLMLimiterIsolatesUsers(t *testing.T) {
	t.Parallel()

	l := newTestLLMLimiter(50, 50, 0)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		if !l.Allow("heavy-user") {
			t.Fatalf("request %d should pass for heavy-user", i+1)
		}
	}

	if got := l.GetAvailable("other-user"); got != 50 {
		t.Errorf("other-user available = %v, want untouched burst 50", got)
	}
	got := l.GetAvailable("heavy-user")
	if got < 39 || got > 41 {
		t.Errorf("heavy-user available = %v, want about 40", got)
	}
}

func TestLLMLimiterEmptyUserBypasses(t *testing.T) {
	t.Parallel()

	l := newTestLLMLimiter(1, 1, 0)
	defer l.Stop()

	l.Allow("")
	l.Allow("")
	if !l.Allow("") {
		t.Error("anonymous callers are never limited here")
	}
	if got := l.GetAvailable(""); got != 1 {
		t.Errorf("empty user available = %v, want burst", got)
	}
	if got := l.GetActiveCount(); got != 0 {
		t.Errorf("active = %d, empty user must not allocate state", got)
	}
}

func TestLLMLimiterHourlyRefill(t *testing.T) {
	t.Parallel()

	// 3600 per hour refills one token per second.
	l := newTestLLMLimiter(3600, 3600, 0)
	defer l.Stop()

	l.Allow("u1")
	l.Allow("u1")
	if got := l.GetAvailable("u1"); got > 3598.5 {
		t.Fatalf("available = %v, want about 3598 after two spends", got)
	}

	time.Sleep(1500 * time.Millisecond)
	if got := l.GetAvailable("u1"); got < 3599 {
		t.Errorf("available = %v, want at least 3599 after refill", got)
	}
}

func TestLLMLimiterDailyCap(t *testing.T) {
	t.Parallel()

	// Generous burst so only the daily cap binds.
	l := newTestLLMLimiter(100, 100, 3)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("u1") {
			t.Fatalf("request %d should fit the daily cap", i+1)
		}
	}
	if l.Allow("u1") {
		t.Error("request beyond the daily cap should be denied")
	}
	if got := l.GetDailyRemaining("u1"); got != 0 {
		t.Errorf("daily remaining = %d, want 0", got)
	}
	if got := l.GetDailyRemaining("fresh"); got != 3 {
		t.Errorf("fresh user daily remaining = %d, want 3", got)
	}
}

func TestLLMLimiterDailyDisabled(t *testing.T) {
	t.Parallel()

	l := newTestLLMLimiter(10, 10, 0)
	defer l.Stop()

	if got := l.GetDailyRemaining("u1"); got != -1 {
		t.Errorf("daily remaining = %d, want -1 with no daily cap", got)
	}
}

func TestLLMLimiterHourlyOnlyConstructor(t *testing.T) {
	t.Parallel()

	l := NewLLMRateLimiter(50, time.Hour, nil)
	defer l.Stop()

	if !l.Allow("u1") {
		t.Fatal("first request should pass")
	}
	if got := l.GetDailyRemaining("u1"); got != -1 {
		t.Errorf("hourly-only limiter daily remaining = %d, want -1", got)
	}
	got := l.GetAvailable("u1")
	if got < 48 || got > 50 {
		t.Errorf("available = %v, want about 49", got)
	}
}

func TestLLMLimiterStopIdempotent(t *testing.T) {
	t.Parallel()

	l := newTestLLMLimiter(10, 10, 0)
	l.Allow("u1")
	l.Stop()
	l.Stop()
}

func TestLLMLimiterConcurrentSameUser(t *testing.T) {
	t.Parallel()

	l := newTestLLMLimiter(100, 100, 0)
	defer l.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				l.Allow("shared-user")
				l.GetAvailable("shared-user")
			}
		}()
	}
	wg.Wait()

	if got := l.GetActiveCount(); got != 1 {
		t.Errorf("active = %d, want 1", got)
	}
	if got := l.GetAvailable("shared-user"); got < 0 || got > 100 {
		t.Errorf("available = %v, out of range", got)
	}
}
