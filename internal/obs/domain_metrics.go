package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OrdersFinalizedTotal counts finalize outcomes.
	OrdersFinalizedTotal *prometheus.CounterVec
	// GateAttemptsTotal counts checkout gate attempts by outcome.
	GateAttemptsTotal *prometheus.CounterVec
	// LineItemsPricedTotal counts line-item pricing outcomes.
	LineItemsPricedTotal *prometheus.CounterVec
	// ReceiptDeliveriesTotal tracks receipt delivery outcomes.
	ReceiptDeliveriesTotal *prometheus.CounterVec
	// ReceiptAttemptLatency records receipt delivery attempt latency in milliseconds.
	ReceiptAttemptLatency *prometheus.HistogramVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OrdersFinalizedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_finalized_total",
			Help:      "Count of order finalize outcomes.",
		}, []string{"result"})
		GateAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_attempts_total",
			Help:      "Count of checkout gate attempts by outcome.",
		}, []string{"result"})
		LineItemsPricedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "line_items_priced_total",
			Help:      "Count of line-item pricing outcomes.",
		}, []string{"result"})
		ReceiptDeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipt_deliveries_total",
			Help:      "Count of receipt delivery outcomes.",
		}, []string{"result"})
		ReceiptAttemptLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "receipt_attempt_duration_ms",
			Help:      "Latency for receipt delivery attempts in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"result"})

		reg.MustRegister(
			OrdersFinalizedTotal,
			GateAttemptsTotal,
			LineItemsPricedTotal,
			ReceiptDeliveriesTotal,
			ReceiptAttemptLatency,
		)
	})
}
