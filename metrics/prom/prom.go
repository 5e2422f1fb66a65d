// Package prom adapts cache.Metrics to Prometheus collectors.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/IvanBrykalov/ttlshard/cache"
)

// Adapter implements cache.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits     prometheus.Counter
	misses   prometheus.Counter
	expired  prometheus.Counter
	sweepDur prometheus.Histogram
	size     prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Cache hits",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Cache misses, including reads of expired entries",
			ConstLabels: constLabels,
		}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "expired_total",
			Help:        "Expired entries removed by the background sweep",
			ConstLabels: constLabels,
		}),
		sweepDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "sweep_duration_seconds",
			Help:        "Duration of one sweep pass over every shard",
			ConstLabels: constLabels,
			Buckets:     []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of resident entries after the last sweep",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.expired, a.sweepDur, a.size)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Expired adds n swept entries.
func (a *Adapter) Expired(n int) { a.expired.Add(float64(n)) }

// Sweep observes the duration of one full pass.
func (a *Adapter) Sweep(d time.Duration) { a.sweepDur.Observe(d.Seconds()) }

// Size updates the resident entries gauge.
func (a *Adapter) Size(entries int) { a.size.Set(float64(entries)) }

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)
