package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payment confirmations by outcome (success/rejected/persist_failed/duplicate).",
		},
		[]string{"outcome"},
	)

	ordersCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Gateway orders created.",
		},
	)

	verifyLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "payment_verify_latency_ms",
			Help:    "ConfirmPayment latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
	)

	subscriptionsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_expired_total",
			Help: "Subscriptions flipped Active -> Expired.",
		},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			paymentsTotal, ordersCreatedTotal, verifyLatencyMs, subscriptionsExpired,
		)
	})
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncPayment(outcome string) {
	paymentsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncOrderCreated() { ordersCreatedTotal.Inc() }

func ObserveVerifyLatency(ms int64) { verifyLatencyMs.Observe(float64(ms)) }

func IncSubscriptionsExpired(n int) { subscriptionsExpired.Add(float64(n)) }
