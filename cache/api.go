package cache

import (
	"context"
	"time"
)

// Cache is a sharded, in-memory string-keyed cache with per-entry TTL.
// All methods are safe for concurrent use by multiple goroutines.
//
// Every key-addressed operation touches exactly one shard: a map access
// under that shard's read or write lock.
type Cache[V any] interface {
	// Set inserts or overwrites k→v using the cache's DefaultTTL.
	Set(k string, v V)

	// SetWithTTL inserts or overwrites k→v expiring ttl from now.
	// A non-positive ttl falls back to DefaultTTL.
	SetWithTTL(k string, v V, ttl time.Duration)

	// Get returns the value for k and whether it is present and unexpired.
	// An expired entry is reported absent but left for the sweep to remove.
	Get(k string) (V, bool)

	// Delete removes k if present. Deleting a missing key is a no-op.
	Delete(k string)

	// Len returns the number of resident entries across all shards,
	// including entries that have expired but not been swept yet.
	Len() int

	// ShardCount returns the effective (power of two) number of shards.
	ShardCount() int

	// Stats returns counters aggregated over all shards.
	Stats() Stats

	// GetOrLoad returns the value for k, loading it via Options.Loader on miss.
	// Concurrent loads for the same key are coalesced (singleflight).
	// If no Loader was configured, returns ErrNoLoader.
	GetOrLoad(ctx context.Context, k string) (V, error)

	// Close stops the background sweeper and waits for it to exit.
	// Subsequent writes are ignored and reads report absent. Always returns nil.
	Close() error
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits    uint64 // Get calls that returned a live entry
	Misses  uint64 // Get calls on missing or expired keys
	Expired uint64 // entries physically removed by sweeps
	Entries int    // resident entries, expired-unswept included
}
