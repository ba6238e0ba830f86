package statscache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeStored    = "stored"
	outcomeFailed    = "failed"
	outcomeDiscarded = "discarded"
)

var (
	// lookups is a Counter vector of cache lookups by result
	lookups *prometheus.CounterVec
	// computeDuration is a Histogram vector of computation times by outcome
	computeDuration *prometheus.HistogramVec
)

// EnableMetrics will enable metrics collection for the stats cache.
// Available metrics are...
//   - stats_cache_lookups_total - (tags: result)
//   - stats_cache_compute_duration_seconds - (tags: outcome)
func EnableMetrics(metricsNamespace string, registerer prometheus.Registerer) {
	lookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "stats_cache_lookups_total",
		Help:      "Count of stats cache lookups",
	},
		[]string{
			// hit or miss
			"result",
		},
	)

	computeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "stats_cache_compute_duration_seconds",
		Help:      "Duration of stats computations",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900, 1800},
	},
		[]string{
			// stored, failed or discarded
			"outcome",
		},
	)

	registerer.MustRegister(
		lookups,
		computeDuration,
	)
}

func observeLookup(hit bool) {
	if lookups == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}
	lookups.WithLabelValues(result).Inc()
}

func observeCompute(outcome string, d time.Duration) {
	if computeDuration == nil {
		return
	}
	computeDuration.WithLabelValues(outcome).Observe(d.Seconds())
}
