package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SignupAttempts records portal signups by account kind and result
	// (created|duplicate|invalid|error).
	SignupAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "novalearn_signup_attempts_total",
			Help: "Total number of portal signup attempts",
		},
		[]string{"kind", "result"},
	)

	// VerificationOutcomes counts token verification results
	// (verified|not_found|expired|error).
	VerificationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "novalearn_verification_outcomes_total",
			Help: "Total number of email verification attempts",
		},
		[]string{"kind", "result"},
	)

	// ReminderDispatches counts class reminder messages by result (sent|skipped|failed).
	ReminderDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "novalearn_reminder_dispatches_total",
			Help: "Total number of class reminder dispatch attempts",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "novalearn_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
