package manager

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gend",
			Subsystem: "generate",
			Name:      "completions_total",
			Help:      "Total completed generation calls",
		},
		[]string{"finish_reason"},
	)

	generatedTokensTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gend",
			Subsystem: "generate",
			Name:      "tokens_total",
			Help:      "Total generated tokens across all calls",
		},
	)

	generationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gend",
			Subsystem: "generate",
			Name:      "duration_seconds",
			Help:      "Duration of generation calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(generationsTotal, generatedTokensTotal, generationDuration)
}

func observeGeneration(finishReason string, tokens int, dur time.Duration) {
	generationsTotal.WithLabelValues(finishReason).Inc()
	generatedTokensTotal.Add(float64(tokens))
	generationDuration.Observe(dur.Seconds())
}
