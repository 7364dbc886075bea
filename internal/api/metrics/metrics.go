// Package metrics defines and registers all custom Prometheus metrics for the
// campus API. It is the single source of truth for metric names, labels, and
// help strings. HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/campussutras/campus-api/internal/core/domain"
)

const namespace = "campus"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthEventsTotal counts account lifecycle operations.
// Labels:
//   - event: "signup", "login", "verify_email", "reset_password", "change_password", "promote_admin"
//   - result: "success" or "failure"
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of account lifecycle operations, by event and result.",
	},
	[]string{"event", "result"},
)

// GateRejectionsTotal counts requests refused by an auth gate.
// Labels:
//   - gate: "user" or "admin"
//   - reason: "missing_cookie", "expired", "invalid", "missing_id", "not_admin"
var GateRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_gate_rejections_total",
		Help:      "Total number of requests rejected by an auth gate.",
	},
	[]string{"gate", "reason"},
)

// RateLimitedTotal counts requests rejected with 429.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailDispatchTotal counts delivery attempts.
// Labels:
//   - template: mail template name (e.g. "verify_email")
//   - result: "sent" or "failed"
var MailDispatchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_dispatch_total",
		Help:      "Total number of mail delivery attempts, by template and result.",
	},
	[]string{"template", "result"},
)

// MailDroppedTotal counts notifications discarded because the queue was full
// or stopped.
var MailDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_dropped_total",
		Help:      "Total number of notifications dropped before delivery.",
	},
	[]string{"template"},
)

// MailQueueDepth is the number of notifications waiting across all workers.
var MailQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of notifications pending in the dispatcher.",
	},
)

// AuthResult maps an error to the result label.
func AuthResult(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// MailObserver feeds dispatcher events into the mail metrics.
type MailObserver struct{}

func (MailObserver) Dropped(t domain.MailTemplate) {
	MailDroppedTotal.WithLabelValues(string(t)).Inc()
}

func (MailObserver) Delivered(t domain.MailTemplate, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	MailDispatchTotal.WithLabelValues(string(t), result).Inc()
}

func (MailObserver) QueueDepth(n int) {
	MailQueueDepth.Set(float64(n))
}
