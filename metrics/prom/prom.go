// Package prom adapts metrics.Provider to a Prometheus registry.
package prom

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ygrebnov/distributor/metrics"
)

// Provider creates Prometheus collectors on demand and registers them with reg.
type Provider struct {
	reg prometheus.Registerer

	mu         sync.Mutex
	collectors map[string]prometheus.Collector
}

var _ metrics.Provider = (*Provider)(nil)

// New returns a Provider registering with reg. A nil reg gets a fresh registry.
func New(reg prometheus.Registerer) *Provider {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Provider{reg: reg, collectors: make(map[string]prometheus.Collector)}
}

func help(name string, opts []metrics.InstrumentOption) string {
	if d := metrics.ApplyOptions(opts).Description; d != "" {
		return d
	}
	return name
}

// register returns the collector already known under name, or registers c.
func (p *Provider) register(name string, c prometheus.Collector) prometheus.Collector {
	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.collectors[name]; ok {
		return existing
	}
	if err := p.reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			c = are.ExistingCollector
		}
		// Any other registration error leaves c unregistered but usable.
	}
	p.collectors[name] = c
	return c
}

// Counter returns a prometheus counter named name.
func (p *Provider) Counter(name string, opts ...metrics.InstrumentOption) metrics.Counter {
	c := p.register(name, prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help(name, opts)}))
	if pc, ok := c.(prometheus.Counter); ok {
		return counter{pc}
	}
	return metrics.NewNoopProvider().Counter(name)
}

// UpDownCounter returns a prometheus gauge named name.
func (p *Provider) UpDownCounter(name string, opts ...metrics.InstrumentOption) metrics.UpDownCounter {
	c := p.register(name, prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help(name, opts)}))
	if g, ok := c.(prometheus.Gauge); ok {
		return gauge{g}
	}
	return metrics.NewNoopProvider().UpDownCounter(name)
}

// Histogram returns a prometheus histogram named name with the default buckets.
func (p *Provider) Histogram(name string, opts ...metrics.InstrumentOption) metrics.Histogram {
	c := p.register(name, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    name,
		Help:    help(name, opts),
		Buckets: prometheus.DefBuckets,
	}))
	if h, ok := c.(prometheus.Histogram); ok {
		return histogram{h}
	}
	return metrics.NewNoopProvider().Histogram(name)
}

type counter struct{ c prometheus.Counter }

func (c counter) Add(n int64) {
	if n > 0 {
		c.c.Add(float64(n))
	}
}

type gauge struct{ g prometheus.Gauge }

func (g gauge) Add(n int64) { g.g.Add(float64(n)) }

type histogram struct{ h prometheus.Histogram }

func (h histogram) Record(v float64) { h.h.Observe(v) }
