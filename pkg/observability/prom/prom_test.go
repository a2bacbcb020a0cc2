package prom

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/matzehuels/hiveplot/pkg/observability"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestLayoutMetrics(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.OnLayoutStart(ctx, 3, 6)
	m.OnLayoutComplete(ctx, []int{2, 2, 2}, 5*time.Millisecond, nil)
	m.OnLayoutStart(ctx, 0, 6)
	m.OnLayoutComplete(ctx, nil, 0, errors.New("bad config"))

	if v := counterValue(t, m.LayoutsTotal.WithLabelValues("success")); v != 1 {
		t.Errorf("success count = %v, want 1", v)
	}
	if v := counterValue(t, m.LayoutsTotal.WithLabelValues("error")); v != 1 {
		t.Errorf("error count = %v, want 1", v)
	}
	for axis := range 3 {
		g := m.AxisNodes.WithLabelValues([]string{"0", "1", "2"}[axis])
		if v := gaugeValue(t, g); v != 2 {
			t.Errorf("axis %d nodes = %v, want 2", axis, v)
		}
	}

	var metric dto.Metric
	if err := m.LayoutNodes.Write(&metric); err != nil {
		t.Fatal(err)
	}
	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("layout_nodes samples = %d, want 2", metric.Histogram.GetSampleCount())
	}
}

func TestCacheMetrics(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.OnCacheMiss(ctx, "layout")
	m.OnCacheSet(ctx, "layout", 2048)
	m.OnCacheHit(ctx, "layout")
	m.OnCacheHit(ctx, "layout")

	if v := counterValue(t, m.CacheRequestsTotal.WithLabelValues("layout", "hit")); v != 2 {
		t.Errorf("hits = %v, want 2", v)
	}
	if v := counterValue(t, m.CacheRequestsTotal.WithLabelValues("layout", "miss")); v != 1 {
		t.Errorf("misses = %v, want 1", v)
	}
}

func TestWriteMetrics(t *testing.T) {
	m := New()
	m.OnWriteComplete(context.Background(), []string{"layout", "sqlite"}, time.Millisecond, nil)

	if v := counterValue(t, m.WritesTotal.WithLabelValues("sqlite", "success")); v != 1 {
		t.Errorf("sqlite writes = %v, want 1", v)
	}
}

func TestHTTPMetrics(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.OnRequest(ctx, "POST", "/v1/layout")
	if v := gaugeValue(t, m.HTTPRequestsInFlight); v != 1 {
		t.Errorf("in flight = %v, want 1", v)
	}
	m.OnResponse(ctx, "POST", "/v1/layout", 200, 10*time.Millisecond)
	if v := gaugeValue(t, m.HTTPRequestsInFlight); v != 0 {
		t.Errorf("in flight = %v, want 0", v)
	}
	if v := counterValue(t, m.HTTPRequestsTotal.WithLabelValues("POST", "/v1/layout", "200")); v != 1 {
		t.Errorf("requests = %v, want 1", v)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.OnCacheHit(context.Background(), "graph")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `hiveplot_cache_requests_total{key_type="graph",result="hit"} 1`) {
		t.Errorf("exposition missing cache counter:\n%s", body)
	}
}

func TestRegister(t *testing.T) {
	defer observability.Reset()

	m := New()
	m.Register()
	if observability.Pipeline() != m || observability.Cache() != m || observability.HTTP() != m {
		t.Error("Register should install m for every hook category")
	}
}

func TestSeparateRegistries(t *testing.T) {
	a, b := New(), New()
	if a.Registry() == b.Registry() {
		t.Error("each Metrics should own its registry")
	}
}
