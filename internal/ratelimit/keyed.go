package ratelimit

import (
	"sync"
	"time"

	"github.com/askdsu/campus-assistant-go/internal/metrics"
)

// KeyedConfig configures a KeyedLimiter.
type KeyedConfig struct {
	// Name labels this limiter in metrics, e.g. "user" or "llm".
	Name string

	// Burst and RefillRate parameterize the per-key token bucket.
	Burst      float64
	RefillRate float64 // tokens per second

	// DailyLimit adds a rolling 24h quota per key. 0 disables it.
	DailyLimit int

	// CleanupPeriod controls how often idle keys are evicted.
	CleanupPeriod time.Duration

	// Metrics may be nil.
	Metrics *metrics.Metrics
}

// KeyedLimiter rate-limits independently per key, typically a client IP
// or user ID. Each key gets its own token bucket plus an optional daily
// quota, and buckets that refill back to full are evicted periodically.
type KeyedLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*keyedBucket
	cfg     KeyedConfig
	stop    chan struct{}
}

// keyedBucket pairs a token bucket with the key's daily quota. Its
// mutex makes the check-both-then-spend-both sequence atomic so two
// racing requests cannot each pass on the last token.
type keyedBucket struct {
	mu      sync.Mutex
	limiter *Limiter
	daily   *SlidingWindowCounter
}

// NewKeyedLimiter creates a per-key limiter and starts its eviction
// loop. Call Stop when done with it.
func NewKeyedLimiter(cfg KeyedConfig) *KeyedLimiter {
	kl := &KeyedLimiter{
		buckets: make(map[string]*keyedBucket),
		cfg:     cfg,
		stop:    make(chan struct{}),
	}
	go kl.evictLoop()
	return kl
}

// Allow spends one token for key. An empty key is never limited.
// When a daily quota is configured, both it and the token bucket must
// pass before either is spent.
func (kl *KeyedLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	b := kl.bucketFor(key)
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.daily.Check() || !b.limiter.Check() {
		if kl.cfg.Metrics != nil {
			kl.cfg.Metrics.RecordRateLimiterDrop(kl.cfg.Name)
		}
		return false
	}

	b.daily.Consume()
	b.limiter.Consume()
	return true
}

func (kl *KeyedLimiter) bucketFor(key string) *keyedBucket {
	kl.mu.RLock()
	b, ok := kl.buckets[key]
	kl.mu.RUnlock()
	if ok {
		return b
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()
	if b, ok = kl.buckets[key]; ok {
		return b
	}

	b = &keyedBucket{
		limiter: New(kl.cfg.Burst, kl.cfg.RefillRate),
		daily:   NewSlidingWindowCounter(kl.cfg.DailyLimit, 24*time.Hour),
	}
	kl.buckets[key] = b
	return b
}

// GetAvailable returns the token count for key. Unknown keys report the
// full burst since their bucket would start full.
func (kl *KeyedLimiter) GetAvailable(key string) float64 {
	if key == "" {
		return kl.cfg.Burst
	}

	kl.mu.RLock()
	b, ok := kl.buckets[key]
	kl.mu.RUnlock()
	if !ok {
		return kl.cfg.Burst
	}
	return b.limiter.Available()
}

// GetDailyRemaining returns the daily quota left for key, or -1 when no
// daily limit is configured.
func (kl *KeyedLimiter) GetDailyRemaining(key string) int {
	if kl.cfg.DailyLimit <= 0 {
		return -1
	}

	kl.mu.RLock()
	b, ok := kl.buckets[key]
	kl.mu.RUnlock()
	if !ok {
		return kl.cfg.DailyLimit
	}
	return b.daily.GetRemaining()
}

// GetActiveCount returns how many keys currently hold a bucket.
func (kl *KeyedLimiter) GetActiveCount() int {
	kl.mu.RLock()
	defer kl.mu.RUnlock()
	return len(kl.buckets)
}

// evictLoop drops buckets whose token count has refilled to full,
// which means the key has been idle for at least a full burst. A key
// with daily quota spent is kept even when its bucket is full, since
// evicting it would hand the key a fresh daily allowance.
func (kl *KeyedLimiter) evictLoop() {
	ticker := time.NewTicker(kl.cfg.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-kl.stop:
			return
		case <-ticker.C:
			kl.mu.Lock()
			for key, b := range kl.buckets {
				if !b.limiter.IsFull() {
					continue
				}
				if kl.cfg.DailyLimit > 0 && b.daily.GetRemaining() < kl.cfg.DailyLimit {
					continue
				}
				delete(kl.buckets, key)
			}
			active := len(kl.buckets)
			kl.mu.Unlock()

			if kl.cfg.Metrics != nil {
				kl.cfg.Metrics.SetRateLimiterActive(kl.cfg.Name, active)
			}
		}
	}
}

// Stop ends the eviction loop. Safe to call more than once.
func (kl *KeyedLimiter) Stop() {
	select {
	case <-kl.stop:
	default:
		close(kl.stop)
	}
}
