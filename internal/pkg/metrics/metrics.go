package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus метрики платёжного модуля
var (
	InvoicesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_invoices_total",
			Help: "Total number of invoice creation attempts",
		},
		[]string{"result"},
	)

	GatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_gateway_requests_total",
			Help: "Total number of requests to the payment gateway",
		},
		[]string{"operation", "result"},
	)

	GatewayRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_gateway_request_duration_seconds",
			Help:    "Payment gateway request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	ReconciliationSweepsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_reconciliation_sweeps_total",
			Help: "Total number of reconciliation sweeps over pending orders",
		},
	)

	ReconciliationSweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "payment_reconciliation_sweep_duration_seconds",
			Help:    "Duration of a full reconciliation sweep",
			Buckets: prometheus.DefBuckets,
		},
	)

	OrdersResolvedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_orders_resolved_total",
			Help: "Total number of orders that reached a terminal status",
		},
		[]string{"status"},
	)

	AwaitOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_await_outcomes_total",
			Help: "Total number of await-outcome calls by result",
		},
		[]string{"result"},
	)

	PendingOrders = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "payment_pending_orders",
			Help: "Number of orders without a terminal status in the ledger",
		},
	)
)

func init() {
	prometheus.MustRegister(
		InvoicesTotal,
		GatewayRequestsTotal,
		GatewayRequestDuration,
		ReconciliationSweepsTotal,
		ReconciliationSweepDuration,
		OrdersResolvedTotal,
		AwaitOutcomesTotal,
		PendingOrders,
	)
}
