// Package metrics defines the instruments a Distributor records and two small
// providers: a no-op default and an in-memory provider for tests and the CLI.
package metrics

// Provider constructs named instruments. Asking twice for the same name returns
// the same instrument. Implementations must be safe for concurrent use.
type Provider interface {
	Counter(name string, opts ...InstrumentOption) Counter
	UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter
	Histogram(name string, opts ...InstrumentOption) Histogram
}

// Counter records monotonic counts, e.g. admitted items.
type Counter interface {
	Add(n int64)
}

// UpDownCounter records a value that moves both ways, e.g. active runs.
type UpDownCounter interface {
	Add(n int64)
}

// Histogram records a distribution, e.g. admission wait in seconds.
type Histogram interface {
	Record(v float64)
}

// InstrumentConfig carries advisory instrument metadata.
type InstrumentConfig struct {
	Description string
	Unit        string
}

// InstrumentOption mutates InstrumentConfig.
type InstrumentOption func(*InstrumentConfig)

// WithDescription sets the instrument help text.
func WithDescription(desc string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Description = desc }
}

// WithUnit sets the instrument unit ("1", "seconds").
func WithUnit(unit string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Unit = unit }
}

// ApplyOptions folds opts into an InstrumentConfig. Nil options are skipped.
func ApplyOptions(opts []InstrumentOption) InstrumentConfig {
	var cfg InstrumentConfig
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}
