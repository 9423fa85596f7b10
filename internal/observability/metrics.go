package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "easyshop_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheLookups counts feed cache lookups by outcome (hit, miss, bypass).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "easyshop_cache_lookups_total",
		Help: "Feed cache lookups by outcome",
	}, []string{"outcome"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "easyshop_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PostInteractions counts completed post interactions by action.
	PostInteractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "easyshop_post_interactions_total",
		Help: "Completed post interactions by action",
	}, []string{"action"})

	// InteractionConflicts counts version-check failures on interaction writes.
	InteractionConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "easyshop_interaction_conflicts_total",
		Help: "Interaction writes rejected by the post version check",
	}, []string{"action"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
