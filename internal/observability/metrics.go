// Package observability wires the engine's Prometheus metrics and OpenTelemetry
// tracing. The simulation core calls into it through narrow hooks so the hot
// tick loop stays free of instrumentation when no collector is set.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EngineCollector exposes tick-loop Prometheus metrics.
type EngineCollector struct {
	gatherer prometheus.Gatherer

	TickDuration    prometheus.Histogram
	TicksProcessed  prometheus.Counter
	WokenAgents     prometheus.Gauge
	WakeQueueDepth  prometheus.Gauge
	RoutingFailures prometheus.Counter
}

// NewEngineCollector registers engine metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewEngineCollector(reg prometheus.Registerer) (*EngineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	tickDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_tick_duration_seconds",
		Help:    "Wall-clock duration of one full simulation tick.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
	tickDuration, err := registerHistogram(reg, tickDuration, "sim_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	ticksProcessed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_ticks_processed_total",
		Help: "Cumulative number of simulation ticks processed.",
	})
	ticksProcessed, err = registerCounter(reg, ticksProcessed, "sim_ticks_processed_total")
	if err != nil {
		return nil, err
	}

	wokenAgents := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_woken_agents",
		Help: "Number of agents woken during the most recent tick.",
	})
	wokenAgents, err = registerGauge(reg, wokenAgents, "sim_woken_agents")
	if err != nil {
		return nil, err
	}

	queueDepth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_wake_queue_depth",
		Help: "Total (tick, agent) entries currently in the wake queue.",
	})
	queueDepth, err = registerGauge(reg, queueDepth, "sim_wake_queue_depth")
	if err != nil {
		return nil, err
	}

	routingFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_routing_failures_total",
		Help: "Cumulative number of TravelTo intents dropped due to routing or mobility errors.",
	})
	routingFailures, err = registerCounter(reg, routingFailures, "sim_routing_failures_total")
	if err != nil {
		return nil, err
	}

	return &EngineCollector{
		gatherer:        gatherer,
		TickDuration:    tickDuration,
		TicksProcessed:  ticksProcessed,
		WokenAgents:     wokenAgents,
		WakeQueueDepth:  queueDepth,
		RoutingFailures: routingFailures,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *EngineCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Handler exposes a ready-to-use /metrics handler.
func (c *EngineCollector) Handler() http.Handler {
	gatherer := c.Gatherer()
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveTick records one completed tick.
func (c *EngineCollector) ObserveTick(d time.Duration, woken, queueDepth int) {
	if c == nil {
		return
	}
	if c.TickDuration != nil {
		c.TickDuration.Observe(d.Seconds())
	}
	if c.TicksProcessed != nil {
		c.TicksProcessed.Inc()
	}
	if c.WokenAgents != nil {
		c.WokenAgents.Set(float64(woken))
	}
	if c.WakeQueueDepth != nil {
		c.WakeQueueDepth.Set(float64(queueDepth))
	}
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
