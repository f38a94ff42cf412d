package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the recommendation module.
type Metrics struct {
	// Recommendations computed by policy type and risk tolerance.
	Computed *prometheus.CounterVec

	// Engine compute latency. The engine is O(1); regressions here mean
	// the pipeline grew something it should not have.
	ComputeLatency prometheus.Histogram

	// Store operation latency by operation.
	StoreLatency *prometheus.HistogramVec

	// Latest-recommendation cache hits and misses.
	CacheLookups *prometheus.CounterVec
}

// New creates a Metrics instance with all recommendation metrics registered.
func New() *Metrics {
	return &Metrics{
		Computed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "covera_recommendations_computed_total",
			Help: "Total recommendations computed by policy type and risk tolerance",
		}, []string{"policy_type", "risk_tolerance"}),

		ComputeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "covera_recommendation_compute_duration_seconds",
			Help:    "Duration of the pure recommendation computation",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}),

		StoreLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "covera_recommendation_store_duration_seconds",
			Help:    "Duration of recommendation store operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"op"}), // op: "save", "list", "find", "latest"

		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "covera_recommendation_cache_lookups_total",
			Help: "Latest-recommendation cache lookups by result",
		}, []string{"result"}), // result: "hit", "miss"
	}
}

// IncrementComputed records a computed recommendation.
func (m *Metrics) IncrementComputed(policyType, riskTolerance string) {
	if m != nil {
		m.Computed.WithLabelValues(policyType, riskTolerance).Inc()
	}
}

// ObserveCompute records the duration of an engine computation.
func (m *Metrics) ObserveCompute(d time.Duration) {
	if m != nil {
		m.ComputeLatency.Observe(d.Seconds())
	}
}

// ObserveStore records the duration of a store operation.
func (m *Metrics) ObserveStore(op string, d time.Duration) {
	if m != nil {
		m.StoreLatency.WithLabelValues(op).Observe(d.Seconds())
	}
}

// IncrementCacheLookup records a cache hit or miss.
func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}
