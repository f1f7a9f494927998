// Package cache implements the namespaced, TTL-scoped result cache
// shared by distributor lookups, advisory responses, and durable
// component metadata.
//
// # Contract
//
// Keys are deterministic hashes over (namespace, case-normalized key,
// optional context), so identical lookups collide onto the same entry.
// Set is last-write-wins with no versioning. Get on an entry past its
// namespace TTL returns a miss and lazily evicts the entry. Cached
// values are idempotent pure functions of the key, so the benign race
// where two callers miss simultaneously and both recompute-and-store
// is tolerated; no cross-key locking is needed.
//
// # Namespaces
//
// Each namespace carries its own TTL: distributor quotes age out in
// hours, advisory responses in weeks, and component metadata never
// expires. See Namespaces for the standard set.
//
// # Backends
//
// SQLiteStore persists entries across process runs under the
// application data directory. MemoryStore holds them in-process and is
// intended for tests and ephemeral runs. Both satisfy Store.
package cache
