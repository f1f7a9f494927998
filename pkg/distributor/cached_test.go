package distributor

import (
	"context"
	"errors"
	"testing"
	"time"

	"calder-eda/fabcost/pkg/cache"
	"calder-eda/fabcost/pkg/ratelimit"
)

// fakeClient counts lookups and serves canned results.
type fakeClient struct {
	results map[string]*Result
	err     error
	calls   int
}

func (f *fakeClient) Name() string { return "Farnell" }

func (f *fakeClient) Lookup(ctx context.Context, mpn string) (*Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results[mpn], nil
}

func fastRetry() ratelimit.RetryConfig {
	return ratelimit.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
		Sleep:          func(time.Duration) {},
	}
}

func bav99Result() *Result {
	return &Result{
		MPN:         "BAV99",
		Distributor: "Farnell",
		Region:      "UK",
		StockLevel:  12000,
		Currency:    "GBP",
		PriceBreaks: []PriceBreak{
			{Quantity: 1, UnitPrice: 0.021},
			{Quantity: 100, UnitPrice: 0.012},
		},
		LifecycleStatus: "Active",
	}
}

func TestCachedClient_FetchesAndCaches(t *testing.T) {
	ctx := context.Background()
	inner := &fakeClient{results: map[string]*Result{"BAV99": bav99Result()}}
	client := NewCachedClient(inner, cache.NewMemoryStore(nil, nil), nil)

	got, err := client.Lookup(ctx, "BAV99")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if got == nil || got.UnitPrice() != 0.021 {
		t.Fatalf("Lookup() = %+v", got)
	}

	// Second lookup must come from cache.
	got, err = client.Lookup(ctx, "BAV99")
	if err != nil || got == nil {
		t.Fatalf("cached Lookup() = (%+v, %v)", got, err)
	}
	if inner.calls != 1 {
		t.Errorf("inner client called %d times, want 1", inner.calls)
	}
	if got.Distributor != "Farnell" || !got.InStock() {
		t.Errorf("cached result = %+v", got)
	}
}

func TestCachedClient_NotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	inner := &fakeClient{results: map[string]*Result{}}
	client := NewCachedClient(inner, cache.NewMemoryStore(nil, nil), nil)

	got, err := client.Lookup(ctx, "MISSING")
	if err != nil || got != nil {
		t.Fatalf("Lookup() = (%+v, %v), want (nil, nil)", got, err)
	}

	// A miss is queried again, not remembered.
	client.Lookup(ctx, "MISSING")
	if inner.calls != 2 {
		t.Errorf("inner client called %d times, want 2", inner.calls)
	}
}

func TestCachedClient_FailureDegradesToNil(t *testing.T) {
	ctx := context.Background()
	inner := &fakeClient{err: errors.New("service unavailable")}
	client := NewCachedClient(inner, cache.NewMemoryStore(nil, nil), nil)
	client.SetRetryConfig(fastRetry())

	got, err := client.Lookup(ctx, "BAV99")
	if err != nil {
		t.Fatalf("Lookup() must not propagate errors, got %v", err)
	}
	if got != nil {
		t.Errorf("Lookup() = %+v, want nil on failure", got)
	}
	if inner.calls != 3 {
		t.Errorf("inner client called %d times, want 3 retries", inner.calls)
	}
}

func TestCachedClient_RateLimited(t *testing.T) {
	ctx := context.Background()
	inner := &fakeClient{results: map[string]*Result{"BAV99": bav99Result()}}

	// One token and no refill: the second uncached lookup has to
	// wait, so a cancelled context surfaces as a nil result.
	bucket := ratelimit.NewTokenBucket(1, 0)
	client := NewCachedClient(inner, cache.NewMemoryStore(nil, nil), bucket)

	if got, _ := client.Lookup(ctx, "BAV99"); got == nil {
		t.Fatal("first lookup should pass the rate limiter")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	got, err := client.Lookup(cancelled, "OTHER")
	if err != nil {
		t.Fatalf("rate-limited Lookup() must not error, got %v", err)
	}
	if got != nil {
		t.Errorf("Lookup() = %+v, want nil when rate limit wait is cancelled", got)
	}
	if inner.calls != 1 {
		t.Errorf("inner client called %d times, want 1", inner.calls)
	}
}

func TestCachedClient_CachedCopyRoundTrips(t *testing.T) {
	ctx := context.Background()
	inner := &fakeClient{results: map[string]*Result{"BAV99": bav99Result()}}
	client := NewCachedClient(inner, cache.NewMemoryStore(nil, nil), nil)

	first, _ := client.Lookup(ctx, "BAV99")
	second, _ := client.Lookup(ctx, "BAV99")

	if len(second.PriceBreaks) != len(first.PriceBreaks) {
		t.Fatalf("cached price breaks = %d, want %d", len(second.PriceBreaks), len(first.PriceBreaks))
	}
	if second.PriceBreaks[1].UnitPrice != 0.012 || second.LifecycleStatus != "Active" {
		t.Errorf("cached result lost fields: %+v", second)
	}
}

func TestResult_UnitPrice(t *testing.T) {
	var empty Result
	if empty.UnitPrice() != 0 {
		t.Error("UnitPrice() without breaks should be 0")
	}
	if bav99Result().UnitPrice() != 0.021 {
		t.Error("UnitPrice() should use the smallest quantity tier")
	}
}
