package metrics

// Tee fans every instrument out to all providers. Nil providers are dropped.
func Tee(providers ...Provider) Provider {
	t := make(tee, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			t = append(t, p)
		}
	}
	return t
}

type tee []Provider

func (t tee) Counter(name string, opts ...InstrumentOption) Counter {
	cs := make(teeCounter, len(t))
	for i, p := range t {
		cs[i] = p.Counter(name, opts...)
	}
	return cs
}

func (t tee) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	us := make(teeCounter, len(t))
	for i, p := range t {
		us[i] = p.UpDownCounter(name, opts...)
	}
	return us
}

func (t tee) Histogram(name string, opts ...InstrumentOption) Histogram {
	hs := make(teeHistogram, len(t))
	for i, p := range t {
		hs[i] = p.Histogram(name, opts...)
	}
	return hs
}

// teeCounter serves both Counter and UpDownCounter; they share the Add method set.
type teeCounter []interface{ Add(int64) }

func (c teeCounter) Add(n int64) {
	for _, x := range c {
		x.Add(n)
	}
}

type teeHistogram []Histogram

func (h teeHistogram) Record(v float64) {
	for _, x := range h {
		x.Record(v)
	}
}
