package distributor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// run holds the state of one Run call. It lives on the Run goroutine only;
// the admitted count is never shared with consumers.
type run struct {
	id        string
	ch        chan<- Envelope
	wait      time.Duration
	limiter   *rate.Limiter
	consumers int
	defaults  Defaults
	log       *zap.Logger
	inst      instruments

	admitted int
	offered  int
	markers  int

	// err is sticky: once an admission failed every later one returns it.
	err error
	// sealed is set when Enumerate returns.
	sealed atomic.Bool
}

func newRun(d *Distributor) *run {
	id := newRunID()
	return &run{
		id:        id,
		ch:        d.ch,
		wait:      d.config.MaxWait,
		limiter:   d.limiter,
		consumers: d.consumers,
		defaults:  d.Defaults(),
		inst:      newInstruments(d.config.Metrics),
		log: d.logger().With(
			zap.String("run_id", id),
			zap.Int("consumers", d.consumers),
			zap.Int("queue_size", cap(d.ch)),
		),
	}
}

// execute runs the enumeration and floods the termination markers.
func (r *run) execute(ctx context.Context, e Enumerator) (int, error) {
	start := time.Now()
	r.inst.active.Add(1)
	defer r.inst.active.Add(-1)

	r.log.Debug("run started", zap.Duration("max_wait", r.wait))

	err := e.Enumerate(ctx, r)
	r.sealed.Store(true)
	if err != nil {
		r.log.Error("enumeration failed", zap.Int("admitted", r.admitted), zap.Error(err))
		return r.admitted, err
	}
	// An enumerator that swallowed an admission error must not turn a stall into success.
	if r.err != nil {
		return r.admitted, r.err
	}

	for i := 0; i < r.consumers; i++ {
		if err := r.offer(ctx, terminateEnvelope()); err != nil {
			return r.admitted, err
		}
	}

	r.log.Info("run completed",
		zap.Int("admitted", r.admitted),
		zap.Int("markers", r.markers),
		zap.Duration("elapsed", time.Since(start)),
	)
	return r.admitted, nil
}

// Admit implements Admitter.
func (r *run) Admit(ctx context.Context, item WorkItem) error {
	if r.sealed.Load() {
		return illegalState("admission after enumeration returned")
	}
	if r.err != nil {
		return r.err
	}
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return r.fail(fmt.Errorf("%w: %w", ErrInterrupted, err))
		}
	}
	return r.offer(ctx, itemEnvelope(item))
}

// Defaults implements Admitter.
func (r *run) Defaults() Defaults { return r.defaults }

// offer pushes env onto the channel, waiting at most r.wait.
// A zero wait is a non-blocking offer.
func (r *run) offer(ctx context.Context, env Envelope) error {
	if r.err != nil {
		return r.err
	}
	if err := ctx.Err(); err != nil {
		return r.fail(fmt.Errorf("%w: %w", ErrInterrupted, err))
	}

	index := r.offered
	r.offered++
	start := time.Now()

	// Fast path: room available right now.
	select {
	case r.ch <- env:
		r.admittedOne(env, start)
		return nil
	default:
	}

	if r.wait <= 0 {
		return r.timeout(env, index)
	}

	timer := time.NewTimer(r.wait)
	defer timer.Stop()

	select {
	case r.ch <- env:
		r.admittedOne(env, start)
		return nil
	case <-timer.C:
		return r.timeout(env, index)
	case <-ctx.Done():
		return r.fail(fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err()))
	}
}

func (r *run) admittedOne(env Envelope, start time.Time) {
	r.inst.wait.Record(time.Since(start).Seconds())
	r.inst.depth.Record(float64(len(r.ch)))
	if env.Kind == KindTerminate {
		r.markers++
		r.inst.markers.Add(1)
		return
	}
	r.admitted++
	r.inst.admitted.Add(1)
}

func (r *run) timeout(env Envelope, index int) error {
	r.inst.timeouts.Add(1)
	te := &TimeoutError{Wait: r.wait, Index: index, Marker: env.Kind == KindTerminate}
	if env.Kind == KindItem {
		te.ItemID = env.Item.ID
	}
	r.log.Warn("admission timed out",
		zap.Int("index", index),
		zap.Bool("marker", te.Marker),
		zap.Int("admitted", r.admitted),
		zap.Int("in_flight", len(r.ch)),
	)
	return r.fail(te)
}

func (r *run) fail(err error) error {
	if r.err == nil {
		r.err = err
	}
	return r.err
}
