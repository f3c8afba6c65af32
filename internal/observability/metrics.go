package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce             sync.Once
	httpRequestsTotal        *prometheus.CounterVec
	httpLatencySeconds       *prometheus.HistogramVec
	httpErrorsTotal          *prometheus.CounterVec
	progressSubmittedTotal   prometheus.Counter
	progressReviewedTotal    *prometheus.CounterVec
	notificationsPublished   *prometheus.CounterVec
	notificationFailures     *prometheus.CounterVec
	notificationStreamsGauge prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ideabank_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ideabank_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ideabank_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		progressSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ideabank_progress_submitted_total",
			Help: "Progress updates accepted from students.",
		})

		progressReviewedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ideabank_progress_reviewed_total",
			Help: "Progress reviews applied, by resulting status.",
		}, []string{"status"})

		notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ideabank_notifications_published_total",
			Help: "Notifications delivered to the in-process broker, by type.",
		}, []string{"type"})

		notificationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ideabank_notification_failures_total",
			Help: "Best-effort notification writes that failed, by type.",
		}, []string{"type"})

		notificationStreamsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ideabank_notification_streams_active",
			Help: "Open SSE and websocket notification streams.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			progressSubmittedTotal,
			progressReviewedTotal,
			notificationsPublished,
			notificationFailures,
			notificationStreamsGauge,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// ProgressSubmitted counts accepted submissions.
func ProgressSubmitted() prometheus.Counter {
	RegisterMetrics()
	return progressSubmittedTotal
}

// ProgressReviewed counts applied reviews.
func ProgressReviewed() *prometheus.CounterVec {
	RegisterMetrics()
	return progressReviewedTotal
}

// NotificationsPublished counts notifications handed to subscribers.
func NotificationsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublished
}

// NotificationFailures counts notifications that could not be stored.
func NotificationFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationFailures
}

// NotificationStreams tracks open notification streams.
func NotificationStreams() prometheus.Gauge {
	RegisterMetrics()
	return notificationStreamsGauge
}
