// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HandlerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "handler_requests_total",
			Help: "Total number of handler invocations",
		},
		[]string{"handler", "status"},
	)

	HandlerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "handler_duration_seconds",
			Help: "Duration of handler processing in seconds",
		},
		[]string{"handler"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of push messages sent to the gateway",
		},
		[]string{"kind"},
	)

	FanoutPages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fanout_pages_total",
			Help: "Total number of grouped writes issued by the fan-out writer",
		},
		[]string{"kind"},
	)

	FanoutUsersUpdated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fanout_users_updated_total",
			Help: "Total number of user inboxes updated by the fan-out writer",
		},
		[]string{"kind"},
	)

	TriggerDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trigger_deliveries_total",
			Help: "Total number of document-created trigger deliveries",
		},
		[]string{"kind", "outcome"},
	)
)
