// Package observability holds the Prometheus metric registry and
// OpenTelemetry tracer setup for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artfolio_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheRequests counts cache-aside lookups by key class and outcome.
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artfolio_cache_requests_total",
		Help: "Cache-aside lookups by key class and hit/miss outcome",
	}, []string{"class", "outcome"})

	// PostsCreated counts archive posts created.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artfolio_posts_created_total",
		Help: "Total number of posts created",
	})

	// ToggleOperations counts like/bookmark toggles by relation and direction.
	ToggleOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artfolio_toggle_operations_total",
		Help: "Like and bookmark toggles by relation and resulting state",
	}, []string{"relation", "state"})

	// NotificationsCreated counts notifications written by type.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artfolio_notifications_created_total",
		Help: "Total notifications created by type",
	}, []string{"type"})

	// ImageEncodeDuration records upload re-encode latency.
	ImageEncodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "artfolio_image_encode_duration_seconds",
		Help:    "Time spent decoding and re-encoding uploaded images",
		Buckets: prometheus.DefBuckets,
	})
)
