package distributor

import (
	"context"
	"encoding/json"
	"log/slog"

	"calder-eda/fabcost/pkg/cache"
	"calder-eda/fabcost/pkg/ratelimit"
)

// CachedClient wraps a Client with the result cache, a token bucket,
// and bounded retries. Lookup never returns an error: cache IO
// failures are treated as misses and fetch failures degrade to a nil
// result, so one distributor outage cannot abort an estimate.
type CachedClient struct {
	inner  Client
	store  cache.Store
	bucket *ratelimit.TokenBucket
	retry  ratelimit.RetryConfig
	logger *slog.Logger
}

// NewCachedClient builds a caching wrapper. The bucket may be nil to
// disable rate limiting (tests mostly do this).
func NewCachedClient(inner Client, store cache.Store, bucket *ratelimit.TokenBucket) *CachedClient {
	return &CachedClient{
		inner:  inner,
		store:  store,
		bucket: bucket,
		retry:  ratelimit.DefaultRetryConfig(),
		logger: slog.Default().With("component", "distributor", "distributor", inner.Name()),
	}
}

// SetRetryConfig overrides the default retry schedule.
func (c *CachedClient) SetRetryConfig(cfg ratelimit.RetryConfig) {
	c.retry = cfg
}

// Name implements Client.
func (c *CachedClient) Name() string { return c.inner.Name() }

// Lookup implements Client. The cache is consulted first; on a miss
// the wrapped client is called under the rate limiter with retries,
// and a successful result is stored for next time.
func (c *CachedClient) Lookup(ctx context.Context, mpn string) (*Result, error) {
	if cached := c.checkCache(ctx, mpn); cached != nil {
		return cached, nil
	}

	if c.bucket != nil {
		if err := c.bucket.Wait(ctx); err != nil {
			return nil, nil
		}
	}

	var result *Result
	err := ratelimit.Retry(ctx, c.retry, func() error {
		var fetchErr error
		result, fetchErr = c.inner.Lookup(ctx, mpn)
		return fetchErr
	})
	if err != nil {
		c.logger.Warn("distributor lookup failed", "mpn", mpn, "error", err)
		return nil, nil
	}

	if result != nil {
		c.storeCache(ctx, mpn, result)
	}
	return result, nil
}

func (c *CachedClient) checkCache(ctx context.Context, mpn string) *Result {
	payload, err := c.store.Get(ctx, cache.NamespaceDistributor, mpn, c.inner.Name())
	if err != nil || payload == nil {
		return nil
	}
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		c.logger.Warn("discarding corrupt cache entry", "mpn", mpn, "error", err)
		return nil
	}
	return &result
}

func (c *CachedClient) storeCache(ctx context.Context, mpn string, result *Result) {
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, cache.NamespaceDistributor, mpn, c.inner.Name(), payload); err != nil {
		c.logger.Warn("failed to cache lookup result", "mpn", mpn, "error", err)
	}
}
