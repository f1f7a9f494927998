package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Standard cache namespaces.
const (
	// NamespaceDistributor holds distributor quote lookups (short TTL).
	NamespaceDistributor = "distributor"

	// NamespaceAdvisory holds advisory classifier/price-check responses
	// (long TTL - advisory answers are expensive and stable).
	NamespaceAdvisory = "advisory"

	// NamespaceMetadata holds durable component metadata (no expiry).
	NamespaceMetadata = "metadata"
)

// TTLs maps namespaces to their time-to-live. A zero duration means
// entries in that namespace never expire.
type TTLs map[string]time.Duration

// DefaultTTLs returns the standard namespace TTL table.
func DefaultTTLs() TTLs {
	return TTLs{
		NamespaceDistributor: 24 * time.Hour,
		NamespaceAdvisory:    30 * 24 * time.Hour,
		NamespaceMetadata:    0,
	}
}

// For returns the TTL for a namespace. Unregistered namespaces default
// to 24 hours rather than living forever.
func (t TTLs) For(ns string) time.Duration {
	if ttl, ok := t[ns]; ok {
		return ttl
	}
	return 24 * time.Hour
}

// Store is the result-cache contract shared by every subsystem that
// memoizes external lookups.
//
// All methods degrade rather than disrupt: a storage failure on Get is
// reported as an error that callers treat as a miss, and Set failures
// only cost a future recomputation.
type Store interface {
	// Get returns the payload for (ns, key, extra), or (nil, nil) on a
	// miss. Expired entries are lazily evicted and reported as misses.
	Get(ctx context.Context, ns, key, extra string) ([]byte, error)

	// Set stores a payload under (ns, key, extra). Last write wins.
	Set(ctx context.Context, ns, key, extra string, payload []byte) error

	// Clear deletes entries. Empty ns clears everything; empty key
	// clears the whole namespace. Returns the number deleted.
	//
	// Single-key clears only match entries stored with an empty extra:
	// keys are hashed together with their extra context, so
	// context-scoped entries can only be cleared namespace-wide.
	Clear(ctx context.Context, ns, key string) (int, error)

	// CleanupExpired removes all entries past their namespace TTL and
	// returns the number deleted.
	CleanupExpired(ctx context.Context) (int, error)

	// Stats reports entry counts and age information.
	Stats(ctx context.Context) (*Stats, error)

	// Close releases backend resources.
	Close() error
}

// Stats describes the cache contents.
type Stats struct {
	TotalEntries int            `json:"total_entries"`
	ByNamespace  map[string]int `json:"by_namespace"`
	OldestEntry  time.Time      `json:"oldest_entry,omitzero"`
	NewestEntry  time.Time      `json:"newest_entry,omitzero"`
}

// Recorder receives cache events for metrics. Implementations must be
// safe for concurrent use. A nil Recorder is valid and records nothing.
type Recorder interface {
	Hit(ns string)
	Miss(ns string)
	Eviction(ns string)
}

// Key derives the deterministic cache key for (ns, key, extra). The
// key component is case-normalized so "bav99" and "BAV99" share an
// entry; the namespace and context are taken verbatim.
func Key(ns, key, extra string) string {
	parts := []string{ns, strings.ToUpper(strings.TrimSpace(key))}
	if extra != "" {
		parts = append(parts, extra)
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
