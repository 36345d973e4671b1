// Package metrics collects Prometheus metrics for the gRPC server and the
// realtime hub and serves them for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records server metrics.
type Collector struct {
	rpcTotal    *prometheus.CounterVec
	rpcLatency  *prometheus.HistogramVec
	rateLimited *prometheus.CounterVec
	watchers    prometheus.Gauge
	snapshots   prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		rpcTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_rpc_total",
			Help: "Completed RPCs by method and status code.",
		}, []string{"method", "code"}),
		rpcLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_rpc_duration_seconds",
			Help:    "RPC handling latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_rate_limited_total",
			Help: "RPCs rejected by the rate limiter.",
		}, []string{"method"}),
		watchers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_watchers",
			Help: "Active record watchers.",
		}),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_snapshots_delivered_total",
			Help: "Snapshots delivered to watchers.",
		}),
	}

	reg.MustRegister(
		c.rpcTotal,
		c.rpcLatency,
		c.rateLimited,
		c.watchers,
		c.snapshots,
	)

	return c
}

// RecordRPC records a completed call.
func (c *Collector) RecordRPC(method, code string, d time.Duration) {
	c.rpcTotal.WithLabelValues(method, code).Inc()
	c.rpcLatency.WithLabelValues(method).Observe(d.Seconds())
}

// RecordRateLimited records a rejected call.
func (c *Collector) RecordRateLimited(method string) {
	c.rateLimited.WithLabelValues(method).Inc()
}

func (c *Collector) WatcherStarted() { c.watchers.Inc() }

func (c *Collector) WatcherStopped() { c.watchers.Dec() }

func (c *Collector) SnapshotDelivered() { c.snapshots.Inc() }

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute serves gatherer at /metrics.
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
