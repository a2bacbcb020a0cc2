// Package prom implements the observability hooks with Prometheus metrics.
//
// Each Metrics value owns its own registry, so tests and embedded servers
// never collide on the global default registerer.
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/hiveplot/pkg/observability"
)

const namespace = "hiveplot"

// Metrics holds the Prometheus collectors for hiveplot.
type Metrics struct {
	// Pipeline
	LoadDuration   *prometheus.HistogramVec
	LayoutsTotal   *prometheus.CounterVec
	LayoutDuration prometheus.Histogram
	LayoutNodes    prometheus.Histogram
	AxisNodes      *prometheus.GaugeVec
	WritesTotal    *prometheus.CounterVec

	// Cache
	CacheRequestsTotal *prometheus.CounterVec
	CacheWriteBytes    *prometheus.HistogramVec

	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a Metrics value with every collector registered on a fresh
// registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		LoadDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graph_load_duration_seconds",
				Help:      "Time spent reading and decoding input graphs",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		LayoutsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "layouts_total",
				Help:      "Total number of layout passes",
			},
			[]string{"status"},
		),
		LayoutDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "layout_duration_seconds",
				Help:      "Layout pass latency in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),
		LayoutNodes: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "layout_nodes",
				Help:      "Number of nodes placed per layout pass",
				Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
			},
		),
		AxisNodes: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "axis_nodes",
				Help:      "Nodes assigned to each axis by the most recent layout pass",
			},
			[]string{"axis"},
		),
		WritesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "writes_total",
				Help:      "Total number of coordinate write-backs per sink",
			},
			[]string{"sink", "status"},
		),
		CacheRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_requests_total",
				Help:      "Cache lookups by key type and result",
			},
			[]string{"key_type", "result"},
		),
		CacheWriteBytes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cache_write_bytes",
				Help:      "Size of values written to the cache",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"key_type"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		registry: reg,
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler returns an HTTP handler serving the registry in the Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Register installs m as the pipeline, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// =============================================================================
// PipelineHooks
// =============================================================================

func (m *Metrics) OnLoadStart(context.Context, string) {}

func (m *Metrics) OnLoadComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	m.LoadDuration.WithLabelValues(status(err)).Observe(d.Seconds())
}

func (m *Metrics) OnLayoutStart(_ context.Context, _ int, nodeCount int) {
	m.LayoutNodes.Observe(float64(nodeCount))
}

func (m *Metrics) OnLayoutComplete(_ context.Context, counts []int, d time.Duration, err error) {
	m.LayoutsTotal.WithLabelValues(status(err)).Inc()
	if err != nil {
		return
	}
	m.LayoutDuration.Observe(d.Seconds())
	m.AxisNodes.Reset()
	for k, c := range counts {
		m.AxisNodes.WithLabelValues(strconv.Itoa(k)).Set(float64(c))
	}
}

func (m *Metrics) OnWriteStart(context.Context, []string) {}

func (m *Metrics) OnWriteComplete(_ context.Context, sinks []string, _ time.Duration, err error) {
	for _, s := range sinks {
		m.WritesTotal.WithLabelValues(s, status(err)).Inc()
	}
}

// =============================================================================
// CacheHooks
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheWriteBytes.WithLabelValues(keyType).Observe(float64(size))
}

// =============================================================================
// HTTPHooks
// =============================================================================

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.HTTPRequestsInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.HTTPRequestsInFlight.Dec()
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
