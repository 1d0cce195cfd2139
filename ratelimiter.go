package vqe

import (
	"sync"
	"time"
)

/*
RateLimiter is a token bucket in front of the hardware path. Remote estimator
services usually meter submissions; once the bucket is empty the evaluation is
served by the simulator instead of queueing behind the quota.
*/
type RateLimiter struct {
	tokens     int           // Current number of available tokens
	maxTokens  int           // Maximum token capacity
	refillRate time.Duration // Time between token replenishments
	lastRefill time.Time     // Last time tokens were added
	mu         sync.Mutex
}

/*
NewRateLimiter creates a full bucket.

Parameters:
  - maxTokens: Maximum number of tokens (burst capacity)
  - refillRate: Duration between token replenishments

Example:

	limiter := NewRateLimiter(5, time.Second) // 5 hardware calls per second
*/
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	now := time.Now()
	return &RateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: now,
	}
}

// Observe does nothing: the bucket only depends on the clock.
func (rl *RateLimiter) Observe(*Metrics) {}

// Limit consumes a token if one is available.
func (rl *RateLimiter) Limit() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	if rl.tokens > 0 {
		rl.tokens--
		return false
	}
	return true
}

func (rl *RateLimiter) Renormalize() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
}

// refill assumes the caller holds the mutex.
func (rl *RateLimiter) refill() {
	if rl.refillRate <= 0 {
		rl.tokens = rl.maxTokens
		return
	}

	elapsed := time.Since(rl.lastRefill)
	tokensToAdd := int(elapsed / rl.refillRate)

	if tokensToAdd > 0 {
		rl.tokens = min(rl.maxTokens, rl.tokens+tokensToAdd)
		// Only move lastRefill forward by whole periods.
		rl.lastRefill = rl.lastRefill.Add(time.Duration(tokensToAdd) * rl.refillRate)
	}
}
