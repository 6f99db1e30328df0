package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RewriteOutcomes counts rewrite attempts by outcome and matched op kind.
	RewriteOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kernel_rewrite_outcomes_total",
		Help: "The total number of embedded kernel rewrite attempts by outcome",
	}, []string{"outcome", "kind"})

	RewriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kernel_rewrite_duration_seconds",
		Help:    "Time spent scanning and assembling one compilation unit",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10), // 1us to ~260ms
	})

	EmbeddedKernelLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "embedded_kernel_lookups_total",
		Help: "The total number of embedded kernel lookups by kernel and result",
	}, []string{"kernel", "result"})

	// SpecializedDims records the matrix extents baked into specialization
	// constants.
	SpecializedDims = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kernel_specialized_dimension",
		Help:    "Matrix dimensions passed to embedded kernels as specialization constants",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{"dim"})
)

// WriteTextfile writes every registered metric to path in the text
// exposition format, for the node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
