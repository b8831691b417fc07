package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReconciliationMetrics records outcomes of order status reconciliation,
// labeled by the trigger (webhook, poll, admin).
type ReconciliationMetrics struct {
	duration *prometheus.HistogramVec
	applied  *prometheus.CounterVec
	noop     *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewReconciliationMetrics registers the reconciliation metrics on the
// provided registerer.
func NewReconciliationMetrics(reg prometheus.Registerer) *ReconciliationMetrics {
	if reg == nil {
		return &ReconciliationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_reconciliation_duration_seconds",
		Help:    "Duration of order status reconciliation in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"trigger"})
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_reconciliation_applied",
		Help: "Order status transitions applied.",
	}, []string{"trigger", "status"})
	noop := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_reconciliation_noop",
		Help: "Reconciliation runs that required no writes.",
	}, []string{"trigger"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_reconciliation_failure",
		Help: "Failed reconciliation runs.",
	}, []string{"trigger"})
	reg.MustRegister(duration, applied, noop, failure)
	return &ReconciliationMetrics{
		duration: duration,
		applied:  applied,
		noop:     noop,
		failure:  failure,
	}
}

// ObserveDuration records the duration of one reconciliation run.
func (r *ReconciliationMetrics) ObserveDuration(trigger string, duration time.Duration) {
	if r == nil || r.duration == nil {
		return
	}
	r.duration.WithLabelValues(normalizeLabel(trigger)).Observe(duration.Seconds())
}

// IncApplied increments the applied counter for a trigger/status pair.
func (r *ReconciliationMetrics) IncApplied(trigger, status string) {
	if r == nil || r.applied == nil {
		return
	}
	r.applied.WithLabelValues(normalizeLabel(trigger), normalizeLabel(status)).Inc()
}

// IncNoop increments the no-op counter for the named trigger.
func (r *ReconciliationMetrics) IncNoop(trigger string) {
	if r == nil || r.noop == nil {
		return
	}
	r.noop.WithLabelValues(normalizeLabel(trigger)).Inc()
}

// IncFailure increments the failure counter for the named trigger.
func (r *ReconciliationMetrics) IncFailure(trigger string) {
	if r == nil || r.failure == nil {
		return
	}
	r.failure.WithLabelValues(normalizeLabel(trigger)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
