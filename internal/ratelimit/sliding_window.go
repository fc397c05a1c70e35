package ratelimit

import (
	"sync"
	"time"
)

// SlidingWindowCounter enforces a rolling quota, such as a per-user
// daily cap on AI calls. It keeps counts for the current and previous
// fixed windows and weights the previous one by how much of it still
// overlaps the rolling window, which smooths the limit across window
// boundaries in constant space.
//
// A nil counter means no quota; all methods are nil-receiver safe.
type SlidingWindowCounter struct {
	mu          sync.Mutex
	current     int
	previous    int
	windowStart time.Time
	window      time.Duration
	max         int
}

// NewSlidingWindowCounter creates a counter allowing max requests per
// rolling window. Returns nil (quota disabled) when max <= 0.
func NewSlidingWindowCounter(max int, window time.Duration) *SlidingWindowCounter {
	if max <= 0 {
		return nil
	}
	return &SlidingWindowCounter{
		windowStart: time.Now(),
		window:      window,
		max:         max,
	}
}

// Check reports whether one more request fits the quota, without
// recording it. Pair with Consume under the caller's lock when
// combining with other limiters.
func (c *SlidingWindowCounter) Check() bool {
	if c == nil {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.rotate()
	return c.weighted() < float64(c.max)
}

// Consume records one request. Does nothing once the quota is spent.
func (c *SlidingWindowCounter) Consume() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.rotate()
	if c.weighted() < float64(c.max) {
		c.current++
	}
}

// GetRemaining returns the approximate quota left in the rolling
// window, or -1 for a disabled counter.
func (c *SlidingWindowCounter) GetRemaining() int {
	if c == nil {
		return -1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.rotate()
	left := float64(c.max) - c.weighted()
	if left < 0 {
		return 0
	}
	return int(left)
}

// rotate shifts the window forward when the current one has elapsed.
// Callers must hold mu.
func (c *SlidingWindowCounter) rotate() {
	elapsed := time.Since(c.windowStart)
	if elapsed < c.window {
		return
	}

	passed := int(elapsed / c.window)
	if passed == 1 {
		c.previous = c.current
	} else {
		// Counter idle for multiple windows, no overlap remains.
		c.previous = 0
	}
	c.current = 0
	c.windowStart = c.windowStart.Add(time.Duration(passed) * c.window)
}

// weighted returns current plus the still-overlapping share of the
// previous window. Callers must hold mu.
func (c *SlidingWindowCounter) weighted() float64 {
	elapsed := time.Since(c.windowStart)
	overlap := float64(c.window-elapsed) / float64(c.window)
	if overlap < 0 {
		overlap = 0
	} else if overlap > 1 {
		overlap = 1
	}
	return float64(c.current) + float64(c.previous)*overlap
}
