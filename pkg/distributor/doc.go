// Package distributor defines the distributor lookup collaborator and
// a caching, rate-limited wrapper around any implementation.
//
// The estimator never talks to a distributor API directly. It sees a
// Client that returns a Result or nil; a nil result means "no data"
// and the deterministic cost model carries on without it. CachedClient
// adds the result cache, a token bucket, and bounded retries in front
// of a live client so lookup failures degrade instead of propagating.
package distributor
