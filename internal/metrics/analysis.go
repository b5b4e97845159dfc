package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewDetectorDuration creates the histogram timing individual detector
// runs. Registered explicitly by the caller, not via init, so library
// embedders can opt out.
func NewDetectorDuration() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchscope",
			Name:      "detector_duration_seconds",
			Help:      "Opportunity detector run duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"detector"},
	)
}

// NewAggCacheCounter creates the counter tracking aggregated-row cache
// outcomes (hit, miss, error).
func NewAggCacheCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchscope",
			Name:      "agg_cache_total",
			Help:      "Aggregated-row cache lookups by result",
		},
		[]string{"result"},
	)
}

// RegisterAnalysis registers the analysis collectors with the default
// registry.
func RegisterAnalysis(collectors ...prometheus.Collector) {
	prometheus.MustRegister(collectors...)
}
