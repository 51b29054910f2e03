// Package metrics defines and registers all custom Prometheus metrics for
// the storefront commerce API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Checkout metrics ──────────────────────────────────────────────────────────

// CheckoutsTotal counts checkout attempts by outcome.
// Labels:
//   - result: "success", "replayed", "payment_failed", "rejected",
//     "reconciliation", "error"
var CheckoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of checkout attempts, by result.",
	},
	[]string{"result"},
)

// CheckoutDuration measures the end-to-end checkout latency, dominated by
// the external payment call.
var CheckoutDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "checkout_duration_seconds",
		Help:      "Duration of checkout transactions from request to response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// PaymentErrorsTotal counts classified charge failures.
// Label:
//   - kind: "declined", "network", "invalid_source"
var PaymentErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_errors_total",
		Help:      "Total number of failed charge attempts, by classification.",
	},
	[]string{"kind"},
)

// ReconciliationsTotal counts charges that succeeded without a persisted
// order. Any non-zero rate needs operator attention.
var ReconciliationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconciliations_total",
		Help:      "Total number of charges recorded for manual reconciliation.",
	},
)

// OrdersCreatedTotal counts durably persisted orders.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	},
)

// ── Cart metrics ──────────────────────────────────────────────────────────────

// CartAddsTotal counts add-to-cart operations (creates and increments).
var CartAddsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_adds_total",
		Help:      "Total number of add-to-cart operations.",
	},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailQueueDepth tracks jobs waiting in each mail worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of jobs pending in each mail worker channel.",
	},
	[]string{"worker_id"},
)

// MailSendFailuresTotal counts dropped best-effort email deliveries.
var MailSendFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_send_failures_total",
		Help:      "Total number of mail deliveries that failed and were dropped.",
	},
)
