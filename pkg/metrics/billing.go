package metrics

import "github.com/prometheus/client_golang/prometheus"

// Billing counters. Registered once at package load; the gateway adapters
// increment them on every settlement attempt.
var (
	ChargeAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: "billing",
			Name:      "charge_attempts_total",
			Help:      "Remote charge attempts partitioned by gateway and result.",
		},
		[]string{"gateway", "result"},
	)

	Settlements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: "billing",
			Name:      "settlements_total",
			Help:      "Settled ledger entries partitioned by gateway and transaction type.",
		},
		[]string{"gateway", "type"},
	)
)

func init() {
	prometheus.MustRegister(ChargeAttempts, Settlements)
}
