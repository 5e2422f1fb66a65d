package cache

import (
	"time"

	"github.com/golang/glog"
)

// reclaim is the background sweeper. Every interval it sweeps all shards in
// index order, one at a time. It checks for shutdown on every wake and
// after every full pass, never in the middle of a shard.
func (c *cache[V]) reclaim(interval time.Duration) {
	defer close(c.done)

	t := time.NewTicker(interval)
	defer t.Stop()

	glog.V(1).Infof("cache: reclaimer started (shards=%d interval=%v)", len(c.shards), interval)
	for {
		select {
		case <-c.stop:
			glog.V(1).Info("cache: reclaimer stopped")
			return
		case <-t.C:
			if c.closed.Load() {
				glog.V(1).Info("cache: reclaimer stopped")
				return
			}
			c.sweepAll()
		}
	}
}

// sweepAll runs one full pass over every shard and reports it to Metrics.
func (c *cache[V]) sweepAll() int {
	start := time.Now()
	removed, resident := 0, 0
	for _, s := range c.shards {
		removed += s.Sweep()
		resident += s.Len()
	}
	d := time.Since(start)

	c.opt.Metrics.Sweep(d)
	c.opt.Metrics.Size(resident)
	if removed > 0 {
		glog.V(2).Infof("cache: swept %d expired entries in %v (resident=%d)", removed, d, resident)
	}
	return removed
}
