// Package telemetry holds the Prometheus metrics of the storefront and the
// HTTP middleware that records them.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// OrdersPlaced counts orders accepted by the storefront.
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "periodcare_orders_placed_total",
		Help: "Orders placed",
	})

	// OrderRevenue sums the frozen totals of placed orders.
	OrderRevenue = promauto.NewCounter(prometheus.CounterOpts{
		Name: "periodcare_order_amount_total",
		Help: "Sum of placed order totals",
	})

	// NotificationsTotal counts notification attempts per channel and result.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "periodcare_notifications_total",
			Help: "Notification attempts by channel and result",
		},
		[]string{"channel", "result"},
	)

	ReminderScans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "periodcare_reminder_scans_total",
		Help: "Reminder scans run",
	})

	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "periodcare_reminders_sent_total",
		Help: "Reminders delivered over at least one channel",
	})
)

// Notification records one notification attempt.
func Notification(channel string, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	NotificationsTotal.WithLabelValues(channel, result).Inc()
}
