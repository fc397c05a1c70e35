package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestAllowSpendsBurst(t *testing.T) {
	t.Parallel()

	l := New(3, 0.001)
	for i := 0; i < 3; i++ {
		if !l.Allow() {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}
	if l.Allow() {
		t.Error("request beyond burst should be denied")
	}
}

func TestAllowRefills(t *testing.T) {
	t.Parallel()

	// 50 tokens/sec so a short sleep is enough to earn one back.
	l := New(1, 50)
	if !l.Allow() {
		t.Fatal("first request should pass")
	}
	if l.Allow() {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(40 * time.Millisecond)
	if !l.Allow() {
		t.Error("token should have refilled")
	}
}

func TestRefillCapsAtBurst(t *testing.T) {
	t.Parallel()

	l := New(2, 1000)
	time.Sleep(20 * time.Millisecond)
	if got := l.Available(); got > 2 {
		t.Errorf("available = %v, want at most burst 2", got)
	}
}

func TestCheckDoesNotSpend(t *testing.T) {
	t.Parallel()

	l := New(1, 0.001)
	if !l.Check() {
		t.Fatal("Check should pass with a full bucket")
	}
	if !l.Check() {
		t.Error("Check must not spend the token")
	}

	l.Consume()
	if l.Check() {
		t.Error("Check should fail after Consume emptied the bucket")
	}
}

func TestConsumeOnEmptyBucket(t *testing.T) {
	t.Parallel()

	l := New(1, 0.001)
	l.Consume()
	l.Consume() // no tokens left, must not go negative

	if got := l.Available(); got < 0 {
		t.Errorf("available = %v, token count went negative", got)
	}
}

func TestIsFull(t *testing.T) {
	t.Parallel()

	l := New(2, 100)
	if !l.IsFull() {
		t.Error("fresh bucket should be full")
	}

	l.Allow()
	if l.IsFull() {
		t.Error("bucket should not be full after a spend")
	}

	time.Sleep(40 * time.Millisecond)
	if !l.IsFull() {
		t.Error("bucket should refill back to full")
	}
}

func TestAllowConcurrent(t *testing.T) {
	t.Parallel()

	const workers = 20
	l := New(10, 0.001)

	var wg sync.WaitGroup
	allowed := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow() {
				allowed <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for range allowed {
		count++
	}
	if count != 10 {
		t.Errorf("allowed %d concurrent requests, want exactly burst 10", count)
	}
}
