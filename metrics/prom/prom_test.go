package prom

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/IvanBrykalov/ttlshard/cache"
)

func TestAdapter_Counters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := New(reg, "ttl", "test", prometheus.Labels{"app": "unit"})

	a.Hit()
	a.Hit()
	a.Miss()
	a.Expired(3)
	a.Expired(2)
	a.Size(7)
	a.Sweep(2 * time.Millisecond)

	if got := testutil.ToFloat64(a.hits); got != 2 {
		t.Fatalf("hits=%v", got)
	}
	if got := testutil.ToFloat64(a.misses); got != 1 {
		t.Fatalf("misses=%v", got)
	}
	if got := testutil.ToFloat64(a.expired); got != 5 {
		t.Fatalf("expired=%v", got)
	}
	if got := testutil.ToFloat64(a.size); got != 7 {
		t.Fatalf("size=%v", got)
	}
	if n := testutil.CollectAndCount(a.sweepDur); n != 1 {
		t.Fatalf("sweep histogram series=%d", n)
	}

	want := `
# HELP ttl_test_hits_total Cache hits
# TYPE ttl_test_hits_total counter
ttl_test_hits_total{app="unit"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "ttl_test_hits_total"); err != nil {
		t.Fatal(err)
	}
}

// End to end: the cache drives the adapter from Get and from its sweeper.
func TestAdapter_WiredIntoCache(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := New(reg, "ttl", "wired", nil)

	c := cache.New[string](cache.Options[string]{
		Shards:        4,
		SweepInterval: 5 * time.Millisecond,
		Metrics:       a,
	})
	t.Cleanup(func() { _ = c.Close() })

	c.SetWithTTL("gone", "v", time.Millisecond)
	c.Set("kept", "v")
	c.Get("kept")
	c.Get("nope")

	deadline := time.Now().Add(2 * time.Second)
	for testutil.ToFloat64(a.expired) < 1 {
		if time.Now().After(deadline) {
			t.Fatal("sweeper never reported the expired entry")
		}
		time.Sleep(time.Millisecond)
	}
	if got := testutil.ToFloat64(a.hits); got != 1 {
		t.Fatalf("hits=%v", got)
	}
	if got := testutil.ToFloat64(a.misses); got != 1 {
		t.Fatalf("misses=%v", got)
	}
}
