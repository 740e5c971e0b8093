package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rachao_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// InvitesIssued counts pending admin invites created.
	InvitesIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rachao_invites_issued_total",
			Help: "Total number of admin invites created",
		},
	)

	// InvitesAccepted counts invite acceptances by outcome (granted|already_admin).
	InvitesAccepted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rachao_invites_accepted_total",
			Help: "Total number of admin invites accepted",
		},
		[]string{"outcome"},
	)

	// ShareViews counts public share page loads by result (ok|not_found).
	ShareViews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rachao_share_views_total",
			Help: "Total number of public share view resolutions",
		},
		[]string{"result"},
	)

	// LineupEventsWritten tracks match event rows written by lineup saves.
	LineupEventsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rachao_lineup_events_written_total",
			Help: "Total number of match event rows written by lineup saves",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rachao_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
