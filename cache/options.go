package cache

import (
	"context"
	"time"
)

const (
	// DefaultShards is used when Options.Shards is not positive.
	DefaultShards = 256
	// MinShards is the smallest shard count a cache is built with.
	MinShards = 2
	// DefaultTTL applies when Options.DefaultTTL is not positive.
	DefaultTTL = 10 * time.Second
	// DefaultSweepInterval is the reclaimer period when Options.SweepInterval is not positive.
	DefaultSweepInterval = time.Second
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	// Expired reports entries removed by one shard sweep (n > 0).
	Expired(n int)
	// Sweep reports the duration of one full pass over every shard.
	Sweep(d time.Duration)
	// Size reports resident entries after a sweep pass.
	Size(entries int)
}

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock interface{ NowUnixNano() int64 }

// Options configures the cache. Zero values are safe;
// defaults are applied in New():
//   - Shards <= 0         => DefaultShards, otherwise next power of two (min 2)
//   - DefaultTTL <= 0     => 10s
//   - SweepInterval <= 0  => 1s
//   - nil Metrics         => NoopMetrics
type Options[V any] struct {
	// Shards is the requested number of shards. It is always rounded up to a
	// power of two so routing can mask the hash instead of dividing.
	Shards int

	// DefaultTTL applies to Set and to SetWithTTL calls with a non-positive ttl.
	DefaultTTL time.Duration

	// SweepInterval is how often the background reclaimer sweeps every shard.
	SweepInterval time.Duration

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k string) (V, error)

	// OnExpire is called for every entry a sweep removes, under the shard lock.
	// Keep it lightweight and never call back into the cache from it.
	OnExpire func(k string, v V)

	Metrics Metrics

	// Clock allows overriding time source (tests). Nil => time.Now().
	Clock Clock
}

// withDefaults returns a copy of o with zero values replaced by defaults.
func (o Options[V]) withDefaults() Options[V] {
	if o.DefaultTTL <= 0 {
		o.DefaultTTL = DefaultTTL
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = DefaultSweepInterval
	}
	if o.Metrics == nil {
		o.Metrics = NoopMetrics{}
	}
	return o
}

// nowFunc resolves the configured time source.
func (o Options[V]) nowFunc() func() int64 {
	if o.Clock != nil {
		return o.Clock.NowUnixNano
	}
	return func() int64 { return time.Now().UnixNano() }
}
