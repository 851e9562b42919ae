package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/distributor/metrics"
)

func TestProvider_CounterAndGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := New(reg)

	c := p.Counter("distributor_items_admitted_total", metrics.WithDescription("items"))
	c.Add(3)
	p.Counter("distributor_items_admitted_total").Add(2)
	c.Add(-1) // ignored: counters are monotonic

	u := p.UpDownCounter("distributor_runs_active")
	u.Add(1)
	u.Add(1)
	u.Add(-1)

	require.Equal(t, 5.0, testutil.ToFloat64(p.collectors["distributor_items_admitted_total"]))
	require.Equal(t, 1.0, testutil.ToFloat64(p.collectors["distributor_runs_active"]))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestProvider_HistogramObserves(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := New(reg)

	h := p.Histogram("distributor_admission_wait_seconds")
	h.Record(0.01)
	h.Record(2)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, mfs, 1)
	require.Equal(t, uint64(2), mfs[0].GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestProvider_SharedRegistryReusesCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := New(reg)
	second := New(reg)

	first.Counter("distributor_markers_admitted_total").Add(1)
	second.Counter("distributor_markers_admitted_total").Add(1)

	require.Equal(t, 2.0, testutil.ToFloat64(first.collectors["distributor_markers_admitted_total"]))
}

func TestNew_NilRegistry(t *testing.T) {
	p := New(nil)
	require.NotNil(t, p.reg)
	p.Counter("x_total").Add(1)
}
