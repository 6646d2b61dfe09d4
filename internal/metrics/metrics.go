package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectsTotal tracks connect attempts per connector and outcome
	ConnectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adapter_connects_total",
			Help: "Total number of connect attempts",
		},
		[]string{"connector", "outcome"},
	)

	// BalanceQueriesTotal tracks balance queries per chain and outcome
	BalanceQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adapter_balance_queries_total",
			Help: "Total number of balance queries",
		},
		[]string{"chain", "outcome"},
	)

	// UTXOQueryLatency tracks UTXO source latency
	UTXOQueryLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adapter_utxo_query_latency_seconds",
			Help:    "UTXO query latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// UTXOQueryErrorsTotal tracks UTXO source failures
	UTXOQueryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adapter_utxo_query_errors_total",
			Help: "Total number of failed UTXO queries",
		},
		[]string{"source"},
	)

	// UTXOCacheTotal tracks UTXO cache lookups
	UTXOCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adapter_utxo_cache_total",
			Help: "UTXO cache lookups by result",
		},
		[]string{"result"},
	)

	// DBConnectionPoolUsage tracks database connection pool usage percentage
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "adapter_db_connection_pool_usage_percent",
			Help: "Database connection pool usage percentage",
		},
	)
)

// Outcomes
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeNotFound    = "not_found"
	OutcomeUnsupported = "unsupported"
)

// Labels for values outside the configured set
const (
	LabelUnknown     = "unknown"
	LabelUnsupported = "unsupported"
)
