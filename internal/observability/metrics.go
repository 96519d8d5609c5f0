// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Discovery metrics
	TokensDiscovered prometheus.Counter
	ResolveFailures  prometheus.Counter

	// Decision metrics
	TokensRejected   *prometheus.CounterVec // by gate: risk, age, liquidity, signals
	SignalsGenerated *prometheus.CounterVec // by action: buy, sell
	SnapshotFailures prometheus.Counter

	// Position metrics
	PositionsOpen  prometheus.Gauge
	TradesExecuted *prometheus.CounterVec // by side: buy, sell

	// Transport metrics
	RPCCallLatency *prometheus.HistogramVec
	WSReconnects   prometheus.Counter

	// Persistence metrics
	StoreErrors *prometheus.CounterVec // by store
}

// NewMetrics creates a Metrics instance registered on the given
// registerer. Pass prometheus.DefaultRegisterer in production; tests use
// a fresh registry so repeated construction does not panic.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "solana_sniper"
	}
	factory := promauto.With(reg)

	return &Metrics{
		TokensDiscovered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "tokens_discovered_total",
			Help:      "Total number of new token mints discovered",
		}),
		ResolveFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "resolve_failures_total",
			Help:      "Total number of mint resolutions that failed",
		}),
		TokensRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decision",
			Name:      "tokens_rejected_total",
			Help:      "Total number of tokens rejected, by gate",
		}, []string{"gate"}),
		SignalsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decision",
			Name:      "signals_generated_total",
			Help:      "Total number of actionable trade signals, by action",
		}, []string{"action"}),
		SnapshotFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decision",
			Name:      "snapshot_failures_total",
			Help:      "Total number of market snapshot fetches that failed",
		}),
		PositionsOpen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "positions",
			Name:      "open",
			Help:      "Number of currently open positions",
		}),
		TradesExecuted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "positions",
			Name:      "trades_executed_total",
			Help:      "Total number of executed fills, by side",
		}, []string{"side"}),
		RPCCallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_duration_seconds",
			Help:      "RPC call latency by method",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		WSReconnects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "reconnects_total",
			Help:      "Total number of WebSocket reconnects",
		}),
		StoreErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "errors_total",
			Help:      "Total number of store write failures, by store",
		}, []string{"store"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
