package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
)

// BasicProvider keeps instruments in memory. Instruments are created on first use
// and reused by name; Snapshot reads them all at once.
type BasicProvider struct {
	mu          sync.Mutex
	instruments map[string]any
	meta        map[string]InstrumentConfig
}

// NewBasicProvider constructs an empty BasicProvider.
func NewBasicProvider() *BasicProvider {
	return &BasicProvider{
		instruments: make(map[string]any),
		meta:        make(map[string]InstrumentConfig),
	}
}

// lookup returns the instrument registered under name, creating it with mk when absent.
// A name already used by another instrument kind yields a fresh unregistered instrument.
func lookup[T any](p *BasicProvider, name string, opts []InstrumentOption, mk func() T) T {
	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.instruments[name]; ok {
		if typed, ok := existing.(T); ok {
			return typed
		}
		return mk()
	}
	v := mk()
	p.instruments[name] = v
	p.meta[name] = ApplyOptions(opts)
	return v
}

// Counter returns the counter registered under name.
func (p *BasicProvider) Counter(name string, opts ...InstrumentOption) Counter {
	return lookup(p, name, opts, func() *BasicCounter { return &BasicCounter{} })
}

// UpDownCounter returns the up/down counter registered under name.
func (p *BasicProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	return lookup(p, name, opts, func() *BasicUpDownCounter { return &BasicUpDownCounter{} })
}

// Histogram returns the histogram registered under name.
func (p *BasicProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	return lookup(p, name, opts, func() *BasicHistogram { return &BasicHistogram{} })
}

// Describe returns the metadata an instrument was created with.
func (p *BasicProvider) Describe(name string) (InstrumentConfig, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.meta[name]
	return c, ok
}

// Reading is one instrument in a Snapshot. Value holds the counter value or the
// histogram sum; Count is only set for histograms.
type Reading struct {
	Name  string
	Kind  string
	Value float64
	Count int64
	Unit  string
}

// Snapshot returns every instrument, sorted by name.
func (p *BasicProvider) Snapshot() []Reading {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Reading, 0, len(p.instruments))
	for name, inst := range p.instruments {
		r := Reading{Name: name, Unit: p.meta[name].Unit}
		switch v := inst.(type) {
		case *BasicCounter:
			r.Kind, r.Value = "counter", float64(v.Snapshot())
		case *BasicUpDownCounter:
			r.Kind, r.Value = "updown", float64(v.Snapshot())
		case *BasicHistogram:
			s := v.Snapshot()
			r.Kind, r.Value, r.Count = "histogram", s.Sum, s.Count
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// BasicCounter is a concurrency-safe monotonic counter.
type BasicCounter struct{ val atomic.Int64 }

func (c *BasicCounter) Add(n int64) { c.val.Add(n) }

// Snapshot returns the current value.
func (c *BasicCounter) Snapshot() int64 { return c.val.Load() }

// BasicUpDownCounter is a concurrency-safe up/down counter.
type BasicUpDownCounter struct{ val atomic.Int64 }

func (u *BasicUpDownCounter) Add(n int64) { u.val.Add(n) }

// Snapshot returns the current value.
func (u *BasicUpDownCounter) Snapshot() int64 { return u.val.Load() }

// BasicHistogram tracks count, sum, min and max without buckets.
type BasicHistogram struct {
	mu   sync.Mutex
	snap HistSnapshot
}

// HistSnapshot is a copy of a BasicHistogram.
type HistSnapshot struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
}

// Mean returns Sum/Count, or zero for an empty histogram.
func (s HistSnapshot) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

func (h *BasicHistogram) Record(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.snap.Count == 0 || v < h.snap.Min {
		h.snap.Min = v
	}
	if h.snap.Count == 0 || v > h.snap.Max {
		h.snap.Max = v
	}
	h.snap.Count++
	h.snap.Sum += v
}

// Snapshot returns the histogram state.
func (h *BasicHistogram) Snapshot() HistSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snap
}
