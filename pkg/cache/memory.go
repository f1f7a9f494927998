package cache

import (
	"context"
	"sync"
	"time"
)

// memoryEntry is a single in-memory cache record.
type memoryEntry struct {
	namespace      string
	payload        []byte
	createdAt      time.Time
	lastAccessedAt time.Time
}

// MemoryStore is an in-process Store implementation. It honors the
// same namespace TTL and lazy-eviction semantics as SQLiteStore but
// does not survive restarts. Intended for tests and ephemeral runs.
type MemoryStore struct {
	ttls    TTLs
	entries map[string]*memoryEntry
	rec     Recorder
	now     func() time.Time
	mu      sync.RWMutex
}

// NewMemoryStore creates an in-memory cache with the given namespace
// TTLs. A nil recorder disables metrics.
func NewMemoryStore(ttls TTLs, rec Recorder) *MemoryStore {
	if ttls == nil {
		ttls = DefaultTTLs()
	}
	return &MemoryStore{
		ttls:    ttls,
		entries: make(map[string]*memoryEntry),
		rec:     rec,
		now:     time.Now,
	}
}

// SetClock injects a clock for TTL tests.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, ns, key, extra string) ([]byte, error) {
	k := Key(ns, key, extra)

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[k]
	if !ok {
		m.miss(ns)
		return nil, nil
	}

	if m.expired(entry) {
		delete(m.entries, k)
		m.evict(ns)
		m.miss(ns)
		return nil, nil
	}

	entry.lastAccessedAt = m.now()
	m.hit(ns)
	payload := make([]byte, len(entry.payload))
	copy(payload, entry.payload)
	return payload, nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, ns, key, extra string, payload []byte) error {
	k := Key(ns, key, extra)
	stored := make([]byte, len(payload))
	copy(stored, payload)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.entries[k] = &memoryEntry{
		namespace:      ns,
		payload:        stored,
		createdAt:      now,
		lastAccessedAt: now,
	}
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(_ context.Context, ns, key string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ns == "" {
		n := len(m.entries)
		m.entries = make(map[string]*memoryEntry)
		return n, nil
	}

	deleted := 0
	if key != "" {
		// Single-key clears can only match the context-free key form.
		k := Key(ns, key, "")
		if _, ok := m.entries[k]; ok {
			delete(m.entries, k)
			deleted++
		}
		return deleted, nil
	}

	for k, entry := range m.entries {
		if entry.namespace == ns {
			delete(m.entries, k)
			deleted++
		}
	}
	return deleted, nil
}

// CleanupExpired implements Store.
func (m *MemoryStore) CleanupExpired(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for k, entry := range m.entries {
		if m.expired(entry) {
			delete(m.entries, k)
			m.evict(entry.namespace)
			deleted++
		}
	}
	return deleted, nil
}

// Stats implements Store.
func (m *MemoryStore) Stats(_ context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &Stats{ByNamespace: make(map[string]int)}
	for _, entry := range m.entries {
		stats.TotalEntries++
		stats.ByNamespace[entry.namespace]++
		if stats.OldestEntry.IsZero() || entry.createdAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.createdAt
		}
		if entry.createdAt.After(stats.NewestEntry) {
			stats.NewestEntry = entry.createdAt
		}
	}
	return stats, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*memoryEntry)
	return nil
}

func (m *MemoryStore) expired(entry *memoryEntry) bool {
	ttl := m.ttls.For(entry.namespace)
	if ttl == 0 {
		return false
	}
	return m.now().Sub(entry.createdAt) > ttl
}

func (m *MemoryStore) hit(ns string) {
	if m.rec != nil {
		m.rec.Hit(ns)
	}
}

func (m *MemoryStore) miss(ns string) {
	if m.rec != nil {
		m.rec.Miss(ns)
	}
}

func (m *MemoryStore) evict(ns string) {
	if m.rec != nil {
		m.rec.Eviction(ns)
	}
}
