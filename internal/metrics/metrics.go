package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loandesk_status_transitions_total",
			Help: "Applied application status changes",
		},
		[]string{"from", "to", "path"},
	)

	DocumentVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loandesk_document_verifications_total",
			Help: "Document verification decisions",
		},
		[]string{"status"},
	)

	BlockedPlans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loandesk_blocked_status_updates_total",
			Help: "Status updates refused because documents were still pending",
		},
		[]string{"requested"},
	)

	InspectionsScheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loandesk_inspections_scheduled_total",
			Help: "Site inspections scheduled",
		},
	)

	NotificationsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loandesk_notifications_processed_total",
			Help: "Notification outbox deliveries by result",
		},
		[]string{"kind", "result"},
	)

	StatsFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loandesk_stats_cache_fallbacks_total",
			Help: "Dashboard stats served from cache after a store failure",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loandesk_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
