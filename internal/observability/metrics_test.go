package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveTickRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("NewEngineCollector: %v", err)
	}

	collector.ObserveTick(5*time.Millisecond, 12, 340)
	collector.ObserveTick(7*time.Millisecond, 9, 331)

	if got := testutil.ToFloat64(collector.TicksProcessed); got != 2 {
		t.Fatalf("sim_ticks_processed_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.WokenAgents); got != 9 {
		t.Fatalf("sim_woken_agents = %v, want 9 (latest tick)", got)
	}
	if got := testutil.ToFloat64(collector.WakeQueueDepth); got != 331 {
		t.Fatalf("sim_wake_queue_depth = %v, want 331", got)
	}
}

func TestNewEngineCollectorIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("first NewEngineCollector: %v", err)
	}
	second, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("second NewEngineCollector: %v", err)
	}

	// Both collectors must share the underlying metrics, not clash.
	first.RoutingFailures.Inc()
	second.RoutingFailures.Inc()
	if got := testutil.ToFloat64(first.RoutingFailures); got != 2 {
		t.Fatalf("sim_routing_failures_total = %v, want 2", got)
	}
}

func TestMetricsHandlerExposesEngineMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("NewEngineCollector: %v", err)
	}
	collector.ObserveTick(time.Millisecond, 3, 42)
	collector.RoutingFailures.Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"sim_tick_duration_seconds",
		"sim_ticks_processed_total",
		"sim_woken_agents",
		"sim_wake_queue_depth",
		"sim_routing_failures_total",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
}
