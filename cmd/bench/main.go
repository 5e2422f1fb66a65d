// Command bench runs a synthetic TTL workload against the cache and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/ttlshard/cache"
	pmet "github.com/IvanBrykalov/ttlshard/metrics/prom"
)

func main() {
	// ---- Flags ----
	var (
		shards = flag.Int("shards", 0, "number of shards (0=default 256, rounded up to a power of two)")
		ttl    = flag.Duration("ttl", cache.DefaultTTL, "TTL for written entries")
		sweep  = flag.Duration("sweep", cache.DefaultSweepInterval, "background sweep interval")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")
		delPct   = flag.Int("deletes", 2, "delete percentage of all operations [0..100-reads]")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 100_000, "entries written before the run")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	if *readPct < 0 || *delPct < 0 || *readPct+*delPct > 100 {
		log.Fatalf("reads + deletes must be within [0..100], got %d + %d", *readPct, *delPct)
	}
	if *keys < 1 {
		log.Fatalf("keys must be >= 1, got %d", *keys)
	}

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "ttlshard", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics: serving at %s", *metricsAddr)
		log.Println(http.ListenAndServe(*metricsAddr, nil))
	}()

	// ---- Build cache ----
	c := cache.New[string](cache.Options[string]{
		Shards:        *shards,
		DefaultTTL:    *ttl,
		SweepInterval: *sweep,
		Metrics:       metrics,
	})
	defer func() { _ = c.Close() }()

	for i := 0; i < *preload; i++ {
		k := "k:" + strconv.Itoa(i)
		c.Set(k, "v"+strconv.Itoa(i))
	}

	// ---- Snapshot flags for goroutines ----
	readPctVal := *readPct
	delPctVal := *delPct
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	zipfSVal := *zipfS
	zipfVVal := *zipfV
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	var reads, writes, deletes, hits, misses, total atomic.Uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workersN; w++ {
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(w)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)
			if localZipf == nil {
				return fmt.Errorf("invalid zipf parameters s=%v v=%v", zipfSVal, zipfVVal)
			}

			keyByZipf := func() string {
				return "k:" + strconv.FormatUint(localZipf.Uint64(), 10)
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}

				total.Add(1)
				switch pickOp(int(localR.Int31n(100)), readPctVal, delPctVal) {
				case opRead:
					reads.Add(1)
					if _, ok := c.Get(keyByZipf()); ok {
						hits.Add(1)
					} else {
						misses.Add(1)
					}
				case opDelete:
					deletes.Add(1)
					c.Delete(keyByZipf())
				default:
					writes.Add(1)
					c.Set(keyByZipf(), "v"+strconv.Itoa(localR.Int()))
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
	elapsed := time.Since(start)

	// ---- Report ----
	ops := total.Load()
	readsN := reads.Load()
	hitsN := hits.Load()

	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}
	st := c.Stats()

	fmt.Printf("shards=%d ttl=%v sweep=%v workers=%d keys=%d dur=%v seed=%d\n",
		c.ShardCount(), *ttl, *sweep, workersN, *keys, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d  deletes=%d\n",
		ops, float64(ops)/elapsed.Seconds(), readsN, writes.Load(), deletes.Load())
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", hitsN, misses.Load(), hitRate)
	fmt.Printf("Len()=%d  expired(swept)=%d\n", st.Entries, st.Expired)
}

type op int

const (
	opRead op = iota
	opDelete
	opWrite
)

// pickOp maps one draw p in [0,100) to an operation: the first readPct
// values read, the next delPct delete, the rest write.
func pickOp(p, readPct, delPct int) op {
	switch {
	case p < readPct:
		return opRead
	case p < readPct+delPct:
		return opDelete
	default:
		return opWrite
	}
}
