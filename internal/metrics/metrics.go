package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WithdrawTotal counts stock-ledger outcomes per entity kind.
	WithdrawTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roastery_withdraw_total",
		Help: "Stock withdrawals by entity and outcome.",
	}, []string{"entity", "outcome"})

	// HTTPRequestDuration tracks request latency per route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roastery_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
