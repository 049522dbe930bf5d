package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClaimDuration tracks the latency of voucher claim transactions.
	ClaimDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "voucher_claim_duration_seconds",
			Help: "Duration of voucher claim transactions in seconds",
			Buckets: []float64{
				0.001, // 1ms
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
				2.5,   // 2.5s
				5.0,   // 5s
			},
		},
		[]string{"outcome"}, // claimed, rejected or error
	)

	// ClaimRejections counts business-rule rejections by reason.
	ClaimRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voucher_claim_rejections_total",
			Help: "Voucher claims rejected by business rules, by reason",
		},
		[]string{"reason"},
	)
)

// Outcome labels for ClaimDuration.
const (
	OutcomeClaimed  = "claimed"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// RecordClaimDuration records the duration of one claim transaction.
func RecordClaimDuration(outcome string, seconds float64) {
	ClaimDuration.WithLabelValues(outcome).Observe(seconds)
}

// RecordClaimRejection counts one rejected claim.
func RecordClaimRejection(reason string) {
	ClaimRejections.WithLabelValues(reason).Inc()
}
