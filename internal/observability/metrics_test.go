package observability_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsetzer/codingame-fall-2024/internal/observability"
)

func TestDecisionCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := observability.NewDecisionCollector(reg)
	require.NoError(t, err)

	c.AddActions("TUBE", 2)
	c.AddActions("TUBE", 1)
	c.AddActions("POD", 0)
	c.AddCommitted("links", 1200)
	c.AddCommitted("fleet", -750)
	c.SetEntityCounts(4, 3, 1, 2)
	c.AddIssues("self_link", 1)
	c.ObserveTurn(3 * time.Millisecond)

	assert.Equal(t, 3.0, testutil.ToFloat64(c.Actions.WithLabelValues("TUBE")))
	assert.Equal(t, 1200.0, testutil.ToFloat64(c.Committed.WithLabelValues("links")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.Committed), "a net refund must not create a fleet series")
	assert.Equal(t, 3.0, testutil.ToFloat64(c.Entities.WithLabelValues("links")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Issues.WithLabelValues("self_link")))
	assert.Equal(t, uint64(1), histogramSampleCount(t, reg, "transit_turn_duration_seconds"))
}

func TestDecisionCollector_ReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := observability.NewDecisionCollector(reg)
	require.NoError(t, err)
	b, err := observability.NewDecisionCollector(reg)
	require.NoError(t, err)

	a.AddActions("POD", 1)
	b.AddActions("POD", 1)
	assert.Equal(t, 2.0, testutil.ToFloat64(a.Actions.WithLabelValues("POD")))
}

func TestDecisionCollector_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := observability.NewDecisionCollector(reg)
	require.NoError(t, err)
	c.AddActions("DESTROY", 1)
	c.SetEntityCounts(1, 0, 0, 0)
	c.ObserveTurn(time.Millisecond)

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	for _, name := range []string{
		"transit_actions_total",
		"transit_turn_duration_seconds",
		"transit_snapshot_entities",
	} {
		assert.Contains(t, rr.Body.String(), name)
	}
}

func TestDecisionCollector_NilSafe(t *testing.T) {
	var c *observability.DecisionCollector
	c.AddActions("TUBE", 1)
	c.ObserveTurn(time.Second)
	c.SetEntityCounts(1, 1, 1, 1)
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string) uint64 {
	t.Helper()

	mfs, err := gatherer.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			var h *dto.Histogram = m.GetHistogram()
			if h != nil {
				return h.GetSampleCount()
			}
		}
	}
	return 0
}
