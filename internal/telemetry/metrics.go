package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// MessagesReceived counts decoded stream frames by message type.
	MessagesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seatrack",
			Name:      "messages_received_total",
			Help:      "Total number of stream messages decoded and merged",
		},
		[]string{"type"},
	)

	// MessagesDropped counts frames dropped at the decode boundary.
	MessagesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seatrack",
			Name:      "messages_dropped_total",
			Help:      "Total number of stream messages dropped",
		},
		[]string{"reason"},
	)

	// StreamReconnects counts reconnection attempts against the feed.
	StreamReconnects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "seatrack",
			Name:      "stream_reconnects_total",
			Help:      "Total number of stream reconnection attempts",
		},
	)

	// SecondaryFetches counts secondary source poll outcomes.
	SecondaryFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seatrack",
			Name:      "secondary_fetches_total",
			Help:      "Total number of secondary source fetches by outcome",
		},
		[]string{"outcome"},
	)

	// VesselsTracked is the current registry size.
	VesselsTracked = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "seatrack",
			Name:      "vessels_tracked",
			Help:      "Number of vessels currently tracked",
		},
	)

	// VesselsEvicted counts records removed by the staleness sweep.
	VesselsEvicted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "seatrack",
			Name:      "vessels_evicted_total",
			Help:      "Total number of vessels evicted as stale",
		},
	)

	// EvictionRuns counts sweep executions.
	EvictionRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "seatrack",
			Name:      "eviction_runs_total",
			Help:      "Total number of eviction sweeps",
		},
	)

	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// Idempotent: safe to call from both the app and the tests.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(MessagesReceived)
		prometheus.DefaultRegisterer.Register(MessagesDropped)
		prometheus.DefaultRegisterer.Register(StreamReconnects)
		prometheus.DefaultRegisterer.Register(SecondaryFetches)
		prometheus.DefaultRegisterer.Register(VesselsTracked)
		prometheus.DefaultRegisterer.Register(VesselsEvicted)
		prometheus.DefaultRegisterer.Register(EvictionRuns)
	})
}
