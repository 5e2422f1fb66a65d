package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/IvanBrykalov/ttlshard/internal/util"
)

var (
	// ErrNoLoader is returned by GetOrLoad when no Loader was configured in Options.
	ErrNoLoader = errors.New("cache: no Loader provided")
	// ErrClosed is returned by GetOrLoad once Close has been called.
	ErrClosed = errors.New("cache: closed")
)

// cache is a sharded in-memory KV store with TTL expiry and a background
// sweeper. All methods are safe for concurrent use by multiple goroutines.
type cache[V any] struct {
	// shards is fixed at construction; len(shards) is a power of two.
	shards []*shard[V]
	closed atomic.Bool

	opt Options[V]

	// singleflight group for coalescing concurrent loads in GetOrLoad.
	sf singleflight.Group

	// reclaimer lifecycle: stop is closed by Close, done by the reclaimer on exit.
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New constructs a cache with the provided Options and starts its
// background sweeper. Call Close to stop it.
// Defaults:
//   - Shards <= 0         -> 256, otherwise rounded up to a power of two (min 2)
//   - DefaultTTL <= 0     -> 10s
//   - SweepInterval <= 0  -> 1s
//   - nil Metrics         -> NoopMetrics
func New[V any](opt Options[V]) Cache[V] {
	opt = opt.withDefaults()
	now := opt.nowFunc()

	n := util.RoundShards(opt.Shards, DefaultShards, MinShards)
	cs := make([]*shard[V], n)
	for i := range cs {
		cs[i] = newShard[V](now, opt)
	}

	c := &cache[V]{
		shards: cs,
		opt:    opt,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go c.reclaim(opt.SweepInterval)
	return c
}

// ---- Cache[V] implementation ----

// Set inserts or overwrites k→v using DefaultTTL.
func (c *cache[V]) Set(k string, v V) {
	c.SetWithTTL(k, v, c.opt.DefaultTTL)
}

// SetWithTTL inserts or overwrites k→v with a per-key TTL.
// A non-positive ttl falls back to DefaultTTL.
func (c *cache[V]) SetWithTTL(k string, v V, ttl time.Duration) {
	if c.closed.Load() {
		return
	}
	if ttl <= 0 {
		ttl = c.opt.DefaultTTL
	}
	c.getShard(k).Set(k, v, ttl)
}

// Get returns the value for k and a presence flag.
func (c *cache[V]) Get(k string) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	return c.getShard(k).Get(k)
}

// Delete removes k if present.
func (c *cache[V]) Delete(k string) {
	if c.closed.Load() {
		return
	}
	c.getShard(k).Delete(k)
}

// Len returns the total number of resident entries across all shards.
func (c *cache[V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.Len()
	}
	return total
}

// ShardCount returns the number of shards.
func (c *cache[V]) ShardCount() int { return len(c.shards) }

// Stats sums the per-shard counters. Shards are read one at a time, so the
// snapshot is not atomic across shards.
func (c *cache[V]) Stats() Stats {
	var st Stats
	for _, s := range c.shards {
		ss := s.stats()
		st.Hits += ss.Hits
		st.Misses += ss.Misses
		st.Expired += ss.Expired
		st.Entries += ss.Entries
	}
	return st
}

// GetOrLoad returns the value for k; on miss it loads via Options.Loader,
// coalescing concurrent loads for the same key (singleflight).
// A caller whose ctx ends first returns ctx.Err(); the shared load keeps running.
// The Loader sees the first caller's context values but never its cancellation.
func (c *cache[V]) GetOrLoad(ctx context.Context, k string) (V, error) {
	var zero V
	if c.closed.Load() {
		return zero, ErrClosed
	}
	// fast path
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		return zero, ErrNoLoader
	}

	ch := c.sf.DoChan(k, func() (any, error) {
		// double-check after flight join
		if v, ok := c.Get(k); ok {
			return v, nil
		}
		v, err := c.opt.Loader(context.WithoutCancel(ctx), k)
		if err != nil {
			return nil, err
		}
		c.Set(k, v)
		return v, nil
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		v, _ := r.Val.(V)
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close marks the cache closed, stops the reclaimer and waits until it
// has exited. A sweep already in progress runs to completion first.
func (c *cache[V]) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.stop)
		<-c.done
	})
	return nil
}

// ---- helpers ----

// getShard picks a shard by hashing the key and masking with len-1.
func (c *cache[V]) getShard(k string) *shard[V] {
	return c.shards[c.shardIndex(k)]
}

// shardIndex depends only on k and len(c.shards).
func (c *cache[V]) shardIndex(k string) int {
	return util.ShardIndex(util.Fnv64a(k), len(c.shards))
}
