package distributor

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Distributor admits the work items of one enumeration into a bounded channel and then
// floods one termination marker per declared consumer.
//
// A Distributor serves exactly one run: Initialize, then Run. It is not reusable.
// Zero-value is usable and behaves like New() without options.
type Distributor struct {
	// noCopy prevents accidental copying of the distributor.
	//go:nocopy
	nc noCopy

	config *config

	// mu serializes state transitions; state is read lock-free by State.
	mu    sync.Mutex
	state atomic.Int32

	ch        chan Envelope
	consumers int
	limiter   *rate.Limiter
	runID     string
}

// noCopy is a vet-recognized marker to discourage copying types with this field embedded.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New creates a Distributor using functional options.
// Invalid options fail here, before any channel is created.
func New(opts ...Option) (*Distributor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &Distributor{config: &cfg}, nil
}

func (d *Distributor) initDefaultsIfNeeded() {
	if d.config == nil {
		cfg := defaultConfig()
		d.config = &cfg
	}
}

// Initialize allocates the distribution channel and records the number of consumers
// that will read from it. It must be called exactly once, before Run.
//
// The consumer count must match the number of goroutines reading the channel: with
// fewer markers some consumers wait forever, surplus markers are left unread.
func (d *Distributor) Initialize(consumers int) (<-chan Envelope, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if consumers < 0 {
		return nil, illegalState("consumer count must be >= 0, got " + strconv.Itoa(consumers))
	}
	if s := d.State(); s != StateUninitialized {
		return nil, illegalState("initialize called in state " + s.String())
	}

	d.initDefaultsIfNeeded()
	d.ch = make(chan Envelope, d.config.QueueSize)
	d.consumers = consumers
	if d.config.Rate > 0 {
		d.limiter = rate.NewLimiter(d.config.Rate, d.config.Burst)
	}
	d.state.Store(int32(StateInitialized))
	return d.ch, nil
}

// Run delegates to e to produce items, admits each of them, then admits exactly one
// termination marker per consumer. It returns the number of real items admitted.
//
// Semantics:
//   - Before Initialize, Run fails with ErrIllegalState and the distributor becomes Failed.
//   - A second Run, or a Run racing the first, fails with ErrIllegalState.
//   - An admission timeout returns a *TimeoutError; ctx cancellation returns an error wrapping
//     ErrInterrupted; an enumeration error is returned unchanged. In all these cases the count
//     of items already admitted (and visible to consumers) is returned alongside the error.
//   - The channel is closed when the run ends, successfully or not.
func (d *Distributor) Run(ctx context.Context, e Enumerator) (int, error) {
	if err := d.begin(e); err != nil {
		return 0, err
	}

	r := newRun(d)
	d.mu.Lock()
	d.runID = r.id
	d.mu.Unlock()

	n, err := r.execute(ctx, e)

	d.mu.Lock()
	if err != nil {
		d.state.Store(int32(StateFailed))
	} else {
		d.state.Store(int32(StateCompleted))
	}
	close(d.ch)
	d.mu.Unlock()

	return n, err
}

// begin moves Initialized to Running or reports why that is not possible.
func (d *Distributor) begin(e Enumerator) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch s := d.State(); s {
	case StateUninitialized:
		d.state.Store(int32(StateFailed))
		return illegalState("must call Initialize before Run")
	case StateInitialized:
		if e == nil {
			d.state.Store(int32(StateFailed))
			close(d.ch)
			return illegalState("nil enumerator")
		}
		d.state.Store(int32(StateRunning))
		return nil
	default:
		return illegalState("run called in state " + s.String())
	}
}

// State returns the current lifecycle state. Safe for concurrent use.
func (d *Distributor) State() State { return State(d.state.Load()) }

// QueueSize returns the configured channel capacity.
func (d *Distributor) QueueSize() int { d.initDefaultsIfNeededLocked(); return d.config.QueueSize }

// MaxWait returns the configured admission wait.
func (d *Distributor) MaxWait() time.Duration { d.initDefaultsIfNeededLocked(); return d.config.MaxWait }

// ParsePolicy returns the configured parse-failure policy. The distributor does not act on it.
func (d *Distributor) ParsePolicy() ParsePolicy {
	d.initDefaultsIfNeededLocked()
	return d.config.OnParseFailure
}

// FetcherName returns the configured default fetcher name.
func (d *Distributor) FetcherName() string { d.initDefaultsIfNeededLocked(); return d.config.FetcherName }

// EmitterName returns the configured default emitter name.
func (d *Distributor) EmitterName() string { d.initDefaultsIfNeededLocked(); return d.config.EmitterName }

// Consumers returns the consumer count recorded by Initialize, or -1 before it.
func (d *Distributor) Consumers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ch == nil {
		return -1
	}
	return d.consumers
}

// RunID returns the identifier logged with every event of the run, empty before Run.
func (d *Distributor) RunID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runID
}

// Defaults returns the values enumerators stamp on tuples.
func (d *Distributor) Defaults() Defaults {
	d.initDefaultsIfNeededLocked()
	return Defaults{
		FetcherName:    d.config.FetcherName,
		EmitterName:    d.config.EmitterName,
		OnParseFailure: d.config.OnParseFailure,
	}
}

func (d *Distributor) initDefaultsIfNeededLocked() {
	d.mu.Lock()
	d.initDefaultsIfNeeded()
	d.mu.Unlock()
}

func (d *Distributor) logger() *zap.Logger {
	if d.config.Logger == nil {
		return zap.NewNop()
	}
	return d.config.Logger
}

func newRunID() string { return uuid.NewString() }
