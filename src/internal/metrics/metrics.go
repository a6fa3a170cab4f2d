package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finpay_transfers_total",
		Help: "Transfer outcomes by final transaction status",
	}, []string{"status"})

	TransferReplaysTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "finpay_transfer_idempotent_replays_total",
		Help: "Transfers answered from the idempotency index without re-running the pipeline",
	})

	FraudFlaggedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "finpay_fraud_flagged_total",
		Help: "Transactions rejected by the fraud threshold rule",
	})

	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "finpay_transfer_pipeline_duration_seconds",
		Help:    "End-to-end transfer pipeline latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finpay_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "finpay_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "path"})
)
