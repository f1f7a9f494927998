// Package ratelimit provides the rate limiting and retry primitives
// used around external distributor and advisory calls.
//
// TokenBucket implements the token bucket algorithm with fractional
// refill: tokens accrue continuously at the configured rate, so a
// limiter configured for 30 requests/minute hands out a token every
// two seconds rather than 30 at the top of the minute. Callers that
// exceed the budget block synchronously until a token is available;
// waits are bounded by the refill rate, there is no queue.
//
// Retry implements a bounded retry loop with capped exponential
// backoff. The clock and sleep function are injectable so tests run
// without real delays.
package ratelimit
