package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	entriesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_entries_created_total",
			Help: "Total number of waitlist entries created",
		},
		[]string{"priority"},
	)

	capacityRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "waitlist_capacity_rejections_total",
			Help: "Total number of create requests rejected because the customer has too many active entries",
		},
	)

	activeEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "waitlist_active_entries",
			Help: "Number of entries currently waiting or notified",
		},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_notifications_total",
			Help: "Notification deliveries by channel and outcome",
		},
		[]string{"channel", "status"},
	)

	cleanupRemovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "waitlist_cleanup_removed_total",
			Help: "Entries removed by cleanup",
		},
	)

	matchRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "waitlist_match_requests_total",
			Help: "Number of availability match requests",
		},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waitlist_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"method", "route", "status"},
	)
)

func RecordEntryCreated(priority string) {
	entriesCreatedTotal.WithLabelValues(priority).Inc()
}

func RecordCapacityRejection() {
	capacityRejectionsTotal.Inc()
}

func SetActiveEntries(n int) {
	activeEntries.Set(float64(n))
}

func RecordNotification(channel, status string) {
	notificationsTotal.WithLabelValues(channel, status).Inc()
}

func RecordCleanup(removed int) {
	cleanupRemovedTotal.Add(float64(removed))
}

func RecordMatchRequest() {
	matchRequestsTotal.Inc()
}

func ObserveHTTPRequest(method, route, status string, seconds float64) {
	httpRequestDuration.WithLabelValues(method, route, status).Observe(seconds)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
