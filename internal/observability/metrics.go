// Package observability holds the Prometheus collector and OpenTelemetry
// wiring for the transit controller.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DecisionCollector bundles Prometheus metrics for the per-turn decision
// engine. It satisfies engine.Recorder.
type DecisionCollector struct {
	gatherer prometheus.Gatherer

	Actions       *prometheus.CounterVec
	Committed     *prometheus.CounterVec
	TurnDurations prometheus.Histogram
	Entities      *prometheus.GaugeVec
	Issues        *prometheus.CounterVec
}

// NewDecisionCollector registers decision metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
// Registering twice against the same registry reuses the existing collectors.
func NewDecisionCollector(reg prometheus.Registerer) (*DecisionCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	actions, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "transit_actions_total",
		Help: "Actions emitted by the decision engine, labeled by verb.",
	}, []string{"kind"}), "transit_actions_total")
	if err != nil {
		return nil, err
	}

	committed, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "transit_budget_committed_total",
		Help: "Resources committed by each planning stage.",
	}, []string{"stage"}), "transit_budget_committed_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "transit_turn_duration_seconds",
		Help:    "Wall-clock time spent deciding one turn.",
		Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}), "transit_turn_duration_seconds")
	if err != nil {
		return nil, err
	}

	entities, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "transit_snapshot_entities",
		Help: "Entities in the latest snapshot, labeled by entity type.",
	}, []string{"entity"}), "transit_snapshot_entities")
	if err != nil {
		return nil, err
	}

	issues, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "transit_snapshot_issues_total",
		Help: "Input entries skipped or repaired while building snapshots.",
	}, []string{"kind"}), "transit_snapshot_issues_total")
	if err != nil {
		return nil, err
	}

	return &DecisionCollector{
		gatherer:      gatherer,
		Actions:       actions,
		Committed:     committed,
		TurnDurations: durations,
		Entities:      entities,
		Issues:        issues,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *DecisionCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveTurn records the time one Decide call took.
func (c *DecisionCollector) ObserveTurn(d time.Duration) {
	if c == nil || c.TurnDurations == nil {
		return
	}
	c.TurnDurations.Observe(d.Seconds())
}

// AddActions counts n emitted actions of the given verb.
func (c *DecisionCollector) AddActions(kind string, n int) {
	if c == nil || c.Actions == nil || n <= 0 {
		return
	}
	c.Actions.WithLabelValues(kind).Add(float64(n))
}

// AddCommitted adds the amount a stage spent. Negative amounts (net refunds)
// are ignored because counters only grow.
func (c *DecisionCollector) AddCommitted(stage string, amount int) {
	if c == nil || c.Committed == nil || amount <= 0 {
		return
	}
	c.Committed.WithLabelValues(stage).Add(float64(amount))
}

// SetEntityCounts updates the snapshot size gauges.
func (c *DecisionCollector) SetEntityCounts(stations, links, teleports, vehicles int) {
	if c == nil || c.Entities == nil {
		return
	}
	c.Entities.WithLabelValues("stations").Set(float64(stations))
	c.Entities.WithLabelValues("links").Set(float64(links))
	c.Entities.WithLabelValues("teleports").Set(float64(teleports))
	c.Entities.WithLabelValues("vehicles").Set(float64(vehicles))
}

// AddIssues counts n snapshot issues of the given kind.
func (c *DecisionCollector) AddIssues(kind string, n int) {
	if c == nil || c.Issues == nil || n <= 0 {
		return
	}
	c.Issues.WithLabelValues(kind).Add(float64(n))
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}
