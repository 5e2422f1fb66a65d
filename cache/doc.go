// Package cache provides an in-process, sharded, string-keyed cache with
// per-entry TTL and a background sweeper that reclaims expired entries.
//
// Design
//
//   - Concurrency: the keyspace is split into shards, each a map protected by
//     its own RWMutex. There is no global lock. Gets on one shard run in
//     parallel; Set, Delete and the sweep take the shard's write lock and
//     serialize only with other operations on that shard.
//
//   - Routing: a key's shard is FNV-1a-64(key) & (shards-1). The shard count
//     is rounded up to a power of two at construction (default 256, minimum 2)
//     and never changes, so a key always lands on the same shard.
//
//   - TTL: every entry carries an absolute deadline (write time + TTL, default
//     10s). Expiration is hybrid. Get masks entries past their deadline
//     without removing them, and a reclaimer goroutine sweeps every shard
//     once per SweepInterval (default 1s) to free them. Between expiry and
//     the next sweep an entry still counts toward Len but Get never returns it.
//
//   - Teardown: Close flips the closed flag, stops the reclaimer and waits
//     for it to exit, letting an in-flight sweep finish first.
//
//   - GetOrLoad: coalesces concurrent loads for the same key using singleflight.
//     If Loader is nil, GetOrLoad returns ErrNoLoader.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Expired/Sweep/Size signals.
//     By default NoopMetrics is used; plug the metrics/prom adapter to export them.
//
// There is no capacity limit or eviction policy. Memory is bounded only by
// TTL-driven reclamation.
//
// Basic usage
//
//	c := cache.New[string](cache.Options[string]{})
//	defer c.Close()
//	c.Set("a", "1") // expires in 10s
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//	c.Delete("a")
//
// With TTL
//
//	c.SetWithTTL("tmp", "v", 200*time.Millisecond)
//	time.Sleep(300*time.Millisecond)
//	_, ok := c.Get("tmp") // ok == false (expired)
//
// With GetOrLoad (singleflight)
//
//	c := cache.New[string](cache.Options[string]{
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        // e.g. fetch from DB
//	        return "v:" + k, nil
//	    },
//	})
//	v, err := c.GetOrLoad(context.Background(), "key")
package cache
