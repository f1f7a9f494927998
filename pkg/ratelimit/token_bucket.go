package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenBucket implements the token bucket rate limiting algorithm with
// fractional refill.
//
// The bucket allows bursts up to the capacity while maintaining an
// average rate over time. Tokens are added continuously at the refill
// rate; fractional token balances are kept so that slow rates (e.g.
// 0.5 tokens/second) refill smoothly instead of in whole-token steps.
//
// # Thread Safety
//
// TokenBucket is thread-safe using sync.Mutex for all operations.
type TokenBucket struct {
	capacity   float64   // Maximum tokens in bucket
	tokens     float64   // Current available tokens (fractional)
	refillRate float64   // Tokens added per second
	lastRefill time.Time // Last time tokens were refilled

	// now and sleep are injectable for tests.
	now   func() time.Time
	sleep func(time.Duration)

	mu sync.Mutex
}

// NewTokenBucket creates a new token bucket rate limiter.
//
// Parameters:
//   - capacity: maximum number of tokens in the bucket (burst size)
//   - refillRate: tokens added per second (average rate)
//
// Example:
//
//	// 30 requests/minute, burst up to 5
//	bucket := NewTokenBucket(5, 30.0/60.0)
//
// A non-positive refill rate is clamped to 1 token/second so that
// Wait always computes a finite sleep.
func NewTokenBucket(capacity int64, refillRate float64) *TokenBucket {
	if refillRate <= 0 {
		refillRate = 1
	}
	return &TokenBucket{
		capacity:   float64(capacity),
		tokens:     float64(capacity), // Start with full bucket
		refillRate: refillRate,
		lastRefill: time.Now(),
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// NewTokenBucketWithClock creates a token bucket with an injected clock
// and sleep function for testing.
func NewTokenBucketWithClock(capacity int64, refillRate float64, now func() time.Time, sleep func(time.Duration)) *TokenBucket {
	tb := NewTokenBucket(capacity, refillRate)
	tb.now = now
	tb.sleep = sleep
	tb.lastRefill = now()
	return tb
}

// Take attempts to consume one token from the bucket without blocking.
// Returns true if a token was available and consumed.
func (tb *TokenBucket) Take() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available and consumes it. The wait is
// bounded by the time needed to refill a single token; there is no
// unbounded queueing. Returns early with the context error if ctx is
// cancelled before a token becomes available.
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		tb.mu.Lock()
		tb.refillLocked()
		if tb.tokens >= 1 {
			tb.tokens--
			tb.mu.Unlock()
			return nil
		}
		needed := 1 - tb.tokens
		wait := time.Duration(needed / tb.refillRate * float64(time.Second))
		tb.mu.Unlock()

		if err := ctx.Err(); err != nil {
			return err
		}
		tb.sleep(wait)
	}
}

// Remaining returns the number of whole tokens currently available,
// after refill.
func (tb *TokenBucket) Remaining() int64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refillLocked()
	return int64(tb.tokens)
}

// Reset resets the bucket to full capacity.
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = tb.capacity
	tb.lastRefill = tb.now()
}

// refillLocked adds tokens based on elapsed time since last refill.
// Caller must hold the lock.
func (tb *TokenBucket) refillLocked() {
	now := tb.now()
	elapsed := now.Sub(tb.lastRefill)
	if elapsed <= 0 {
		return
	}

	tb.tokens += elapsed.Seconds() * tb.refillRate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
	tb.lastRefill = now
}
