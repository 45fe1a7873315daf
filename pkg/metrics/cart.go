package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutations, persistence health and live sessions.
type CartMetrics struct {
	mutations       *prometheus.CounterVec
	storageFailures *prometheus.CounterVec
	storageDuration *prometheus.HistogramVec
	sessions        prometheus.Gauge
	sweepDuration   prometheus.Histogram
	evicted         prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Cart mutations applied, by operation.",
	}, []string{"op"})
	storageFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_storage_failures_total",
		Help: "Cart store reads or writes that failed and were degraded.",
	}, []string{"op"})
	storageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_cart_storage_duration_seconds",
		Help:    "Duration of cart store loads and saves in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_cart_sessions_active",
		Help: "Cart sessions currently held in memory.",
	})
	sweepDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_cart_sweep_duration_seconds",
		Help:    "Duration of idle cart session sweeps in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	evicted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_sessions_evicted_total",
		Help: "Idle cart sessions dropped from memory.",
	})
	reg.MustRegister(mutations, storageFailures, storageDuration, sessions, sweepDuration, evicted)
	return &CartMetrics{
		mutations:       mutations,
		storageFailures: storageFailures,
		storageDuration: storageDuration,
		sessions:        sessions,
		sweepDuration:   sweepDuration,
		evicted:         evicted,
	}
}

// IncMutation counts one applied cart operation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncStorageFailure counts one degraded load or save.
func (c *CartMetrics) IncStorageFailure(op string) {
	if c == nil || c.storageFailures == nil {
		return
	}
	c.storageFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveStorage records how long a load or save took.
func (c *CartMetrics) ObserveStorage(op string, duration time.Duration) {
	if c == nil || c.storageDuration == nil {
		return
	}
	c.storageDuration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

// SetSessions publishes the number of live cart sessions.
func (c *CartMetrics) SetSessions(n int) {
	if c == nil || c.sessions == nil {
		return
	}
	c.sessions.Set(float64(n))
}

// ObserveSweep records one idle-session sweep and how many sessions it dropped.
func (c *CartMetrics) ObserveSweep(duration time.Duration, evicted int) {
	if c == nil || c.sweepDuration == nil {
		return
	}
	c.sweepDuration.Observe(duration.Seconds())
	c.evicted.Add(float64(evicted))
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
