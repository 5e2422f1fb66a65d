package cache

import (
	"math"
	"sync"
	"time"

	"github.com/IvanBrykalov/ttlshard/internal/util"
)

// shard is an independent partition of the keyspace with its own lock and map.
// Reads share the lock; writes, deletes and sweeps take it exclusively.
// Every method holds the lock for exactly its own duration (defer unlock).
type shard[V any] struct {
	// ---- guarded by mu ----
	mu sync.RWMutex
	m  map[string]entry[V]

	now      func() int64
	onExpire func(k string, v V)
	metrics  Metrics

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_       util.CacheLinePad
	hits    util.PaddedAtomicUint64
	misses  util.PaddedAtomicUint64
	expired util.PaddedAtomicUint64
}

// newShard builds an empty shard that reads time from now.
func newShard[V any](now func() int64, opt Options[V]) *shard[V] {
	return &shard[V]{
		m:        make(map[string]entry[V]),
		now:      now,
		onExpire: opt.OnExpire,
		metrics:  opt.Metrics,
	}
}

// Set inserts or overwrites k with a deadline of now+ttl.
// The deadline saturates at math.MaxInt64 instead of wrapping.
func (s *shard[V]) Set(k string, v V, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[k] = entry[V]{val: v, exp: deadline(s.now(), ttl)}
}

func deadline(now int64, ttl time.Duration) int64 {
	if now > 0 && int64(ttl) > math.MaxInt64-now {
		return math.MaxInt64
	}
	return now + int64(ttl)
}

// Get returns the value for k if present and not past its deadline.
// An expired entry is masked, not removed: the read lock is never upgraded.
func (s *shard[V]) Get(k string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.m[k]
	if !ok || e.expiredAt(s.now()) {
		s.misses.Add(1)
		s.metrics.Miss()
		var zero V
		return zero, false
	}
	s.hits.Add(1)
	s.metrics.Hit()
	return e.val, true
}

// Delete removes k; a missing key is a no-op.
func (s *shard[V]) Delete(k string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.m, k)
}

// Len returns the number of resident entries, expired or not.
func (s *shard[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Sweep removes every entry whose deadline is strictly before now and
// returns how many were removed. It scans the whole map under the write lock.
func (s *shard[V]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.m {
		if e.exp >= now {
			continue
		}
		delete(s.m, k)
		removed++
		if cb := s.onExpire; cb != nil {
			cb(k, e.val)
		}
	}
	if removed > 0 {
		s.expired.Add(uint64(removed))
		s.metrics.Expired(removed)
	}
	return removed
}

// stats snapshots this shard's counters.
func (s *shard[V]) stats() Stats {
	return Stats{
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
		Expired: s.expired.Load(),
		Entries: s.Len(),
	}
}
