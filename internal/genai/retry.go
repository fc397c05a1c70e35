package genai

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"
)

// CalculateBackoff returns the delay before retry number attempt, using
// full jitter: a uniform draw from [0, initial*2^(attempt-1)] capped at
// max. Jittering the whole range spreads concurrent retries out better
// than adding noise to a fixed exponential step.
func CalculateBackoff(attempt int, initial, max time.Duration) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := max
	// Past 32 doublings any sane cap has long since taken over, and
	// larger shifts risk overflowing int64.
	if shift := attempt - 1; shift < 32 {
		if d := initial << shift; d > 0 && d < max {
			delay = d
		}
	}
	if delay <= 0 {
		return 0
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(delay)))
	if err != nil {
		return delay / 2
	}
	return time.Duration(n.Int64())
}

// HasSufficientBudget reports whether the context deadline leaves at
// least required time. Without a deadline the budget is unlimited.
func HasSufficientBudget(ctx context.Context, required time.Duration) bool {
	deadline, ok := ctx.Deadline()
	if !ok {
		return true
	}
	return time.Until(deadline) >= required
}
