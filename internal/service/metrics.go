package service

import "github.com/prometheus/client_golang/prometheus"

var (
	cartOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_operations_total",
			Help: "Cart transitions applied, by operation.",
		},
		[]string{"operation"},
	)

	cartPersistFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_cart_persist_failures_total",
			Help: "Cart writes to session storage that failed.",
		},
	)

	cartLoadRecoveries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_cart_load_recoveries_total",
			Help: "Persisted carts discarded because they could not be decoded.",
		},
	)

	checkoutTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_checkout_transitions_total",
			Help: "Checkout state machine transitions, by transition.",
		},
		[]string{"transition"},
	)

	checkoutRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_checkout_rejections_total",
			Help: "Checkout inputs refused, by transition and reason.",
		},
		[]string{"transition", "reason"},
	)

	checkoutActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_checkout_sessions_active",
			Help: "Checkout sessions currently open.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		cartOperations,
		cartPersistFailures,
		cartLoadRecoveries,
		checkoutTransitions,
		checkoutRejections,
		checkoutActive,
	)
}
