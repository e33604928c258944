package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_sessions_active",
		Help: "Number of live storefront sessions",
	})

	sessionsEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_sessions_evicted_total",
		Help: "Total number of sessions evicted after being idle",
	})

	cartOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_operations_total",
			Help: "Total number of cart mutations by operation",
		},
		[]string{"operation"},
	)

	navigations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_navigations_total",
			Help: "Total number of navigation actions by action and outcome",
		},
		[]string{"action", "handled"},
	)

	paymentsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_payments_completed_total",
		Help: "Total number of completed payments",
	})

	paymentAmount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_payment_amount_cents_total",
		Help: "Sum of completed payment amounts in cents",
	})
)
