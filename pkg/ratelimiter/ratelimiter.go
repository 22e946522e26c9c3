// Package ratelimiter implements a token bucket used to pace outbound
// requests to third-party APIs.
package ratelimiter

import (
	"sync"
	"time"
)

// RateLimiter is the pacing interface consumed by API clients.
type RateLimiter interface {
	TakeToken() bool
	Wait()
}

// TokenBucket refills at a fixed per-second rate up to its capacity.
type TokenBucket struct {
	capacity   int64
	tokens     int64
	refillRate int64
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a bucket with the given capacity and per-second
// refill rate. Non-positive values are clamped to 1.
func NewTokenBucket(capacity, refillRate int64) *TokenBucket {
	if capacity <= 0 {
		capacity = 1
	}
	if refillRate <= 0 {
		refillRate = 1
	}
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// TakeToken consumes one token if available.
func (tb *TokenBucket) TakeToken() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	refill := int64(now.Sub(tb.lastRefill).Seconds()) * tb.refillRate
	if tb.tokens+refill < tb.capacity {
		tb.tokens += refill
	} else {
		tb.tokens = tb.capacity
	}
	tb.lastRefill = now

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// Wait blocks until a token can be taken.
func (tb *TokenBucket) Wait() {
	interval := time.Second / time.Duration(tb.refillRate)
	if interval < 100*time.Millisecond {
		interval = 100 * time.Millisecond
	}
	for !tb.TakeToken() {
		time.Sleep(interval)
	}
}
