package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CommerceMetrics records counters for the order and payment pipeline.
type CommerceMetrics struct {
	ordersAssembled  *prometheus.CounterVec
	paymentsVerified *prometheus.CounterVec
	paymentReplays   prometheus.Counter
	commissionCents  *prometheus.CounterVec
	verifyDuration   prometheus.Histogram
}

// NewCommerceMetrics registers the commerce metrics on the provided registerer.
func NewCommerceMetrics(reg prometheus.Registerer) *CommerceMetrics {
	if reg == nil {
		return &CommerceMetrics{}
	}
	ordersAssembled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_assembled_total",
		Help: "Orders assembled from carts.",
	}, []string{"actor_kind"})
	paymentsVerified := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_verified_total",
		Help: "Payment verifications by outcome.",
	}, []string{"outcome"})
	paymentReplays := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_verify_replays_total",
		Help: "Payment verifications that were already confirmed.",
	})
	commissionCents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commission_cents_total",
		Help: "Commission cents posted to the ledger.",
	}, []string{"status"})
	verifyDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_verify_duration_seconds",
		Help:    "Duration of payment verification in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(ordersAssembled, paymentsVerified, paymentReplays, commissionCents, verifyDuration)
	return &CommerceMetrics{
		ordersAssembled:  ordersAssembled,
		paymentsVerified: paymentsVerified,
		paymentReplays:   paymentReplays,
		commissionCents:  commissionCents,
		verifyDuration:   verifyDuration,
	}
}

// IncOrderAssembled increments the assembled counter for the actor kind.
func (c *CommerceMetrics) IncOrderAssembled(actorKind string) {
	if c == nil || c.ordersAssembled == nil {
		return
	}
	c.ordersAssembled.WithLabelValues(normalizeLabel(actorKind)).Inc()
}

// IncPaymentVerified increments the verification counter for the outcome.
func (c *CommerceMetrics) IncPaymentVerified(outcome string) {
	if c == nil || c.paymentsVerified == nil {
		return
	}
	c.paymentsVerified.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncPaymentReplay increments the replayed-confirmation counter.
func (c *CommerceMetrics) IncPaymentReplay() {
	if c == nil || c.paymentReplays == nil {
		return
	}
	c.paymentReplays.Inc()
}

// AddCommissionCents adds posted commission cents for the given status.
func (c *CommerceMetrics) AddCommissionCents(status string, cents int64) {
	if c == nil || c.commissionCents == nil || cents <= 0 {
		return
	}
	c.commissionCents.WithLabelValues(normalizeLabel(status)).Add(float64(cents))
}

// ObserveVerifyDuration records how long a verification took.
func (c *CommerceMetrics) ObserveVerifyDuration(duration time.Duration) {
	if c == nil || c.verifyDuration == nil {
		return
	}
	c.verifyDuration.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
