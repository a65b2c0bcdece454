package grpc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine counters exposed on the HTTP /metrics endpoint alongside the
// default process and Go runtime metrics.
var (
	paymentsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lms",
		Name:      "payments_processed_total",
		Help:      "Payments processed, by outcome.",
	}, []string{"outcome"})

	transactionsReversed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lms",
		Name:      "transactions_reversed_total",
		Help:      "Payment reversals applied.",
	})

	loansClassified = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lms",
		Name:      "loans_classified_total",
		Help:      "Loan classification records written.",
	})
)

func paymentOutcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
