package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the recommendation generation handler
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommend_latency_seconds",
		Help:    "Latency of the recommendation generation handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of recommendation runs served
	RecommendRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommend_requests_total",
		Help: "Total number of recommendation generation requests",
	})

	// Count of generation calls that fell back to stub candidates
	GenerationFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommend_generation_fallback_total",
		Help: "Count of generation calls that degraded to the stub candidate set",
	})

	// Count of processed feedback events by action
	FeedbackEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taste_feedback_events_total",
			Help: "Count of taste feedback events by action.",
		},
		[]string{"action"},
	)

	// Count of best-effort secondary writes that failed (event log, snapshot, embedding)
	SecondaryWriteFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taste_secondary_write_failures_total",
			Help: "Count of failed best-effort secondary writes by kind.",
		},
		[]string{"kind"},
	)
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendRequests,
		GenerationFallbacks,
		FeedbackEventsTotal,
		SecondaryWriteFailures,
	)
}
