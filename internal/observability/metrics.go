package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	adminRequestsTotal     *prometheus.CounterVec
	adminLatencySeconds    *prometheus.HistogramVec
	adminErrorsTotal       *prometheus.CounterVec
	activitiesRecorded     *prometheus.CounterVec
	activityRecordFailures prometheus.Counter
	enrichmentFallbacks    *prometheus.CounterVec
	feedLoadLatencySeconds prometheus.Histogram
	streamClientsConnected prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used across the admin plane.
func RegisterMetrics() {
	registerOnce.Do(func() {
		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uplift_admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "uplift_admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uplift_admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		activitiesRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uplift_activities_recorded_total",
			Help: "Audit events appended to the activity trail.",
		}, []string{"action"})

		activityRecordFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uplift_activity_record_failures_total",
			Help: "Audit append attempts absorbed after a store failure.",
		})

		enrichmentFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uplift_enrichment_fallbacks_total",
			Help: "Entity ids that fell back to a generated label during enrichment.",
		}, []string{"kind"})

		feedLoadLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "uplift_activity_feed_load_seconds",
			Help:    "Latency of one activity feed page load including enrichment.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		})

		streamClientsConnected = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "uplift_activity_stream_clients",
			Help: "Websocket clients currently tailing the activity stream.",
		})

		prometheus.MustRegister(
			adminRequestsTotal,
			adminLatencySeconds,
			adminErrorsTotal,
			activitiesRecorded,
			activityRecordFailures,
			enrichmentFallbacks,
			feedLoadLatencySeconds,
			streamClientsConnected,
		)
	})
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}

// ActivitiesRecorded exposes the per-action append counter.
func ActivitiesRecorded() *prometheus.CounterVec {
	RegisterMetrics()
	return activitiesRecorded
}

// ActivityRecordFailures exposes the absorbed-append-failure counter.
func ActivityRecordFailures() prometheus.Counter {
	RegisterMetrics()
	return activityRecordFailures
}

// EnrichmentFallbacks exposes the fallback-label counter.
func EnrichmentFallbacks() *prometheus.CounterVec {
	RegisterMetrics()
	return enrichmentFallbacks
}

// FeedLoadLatency exposes the feed page-load histogram.
func FeedLoadLatency() prometheus.Histogram {
	RegisterMetrics()
	return feedLoadLatencySeconds
}

// StreamClients exposes the connected websocket client gauge.
func StreamClients() prometheus.Gauge {
	RegisterMetrics()
	return streamClientsConnected
}
