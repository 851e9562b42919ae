package distributor

import (
	"context"
	"errors"
	"time"
)

// Summary describes a finished Distribute call.
type Summary struct {
	RunID    string        `json:"run_id"`
	Admitted int           `json:"admitted"`
	Consumed int           `json:"consumed"`
	Markers  int           `json:"markers"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Distribute wires one complete run: it constructs a Distributor from opts, starts
// consumers goroutines running handle, runs e and waits for every consumer to return.
//
// Lifecycle:
//   - Invalid options fail before anything starts.
//   - The first consumer error cancels the admission side, so the run fails with
//     ErrInterrupted instead of waiting out the admission timeout on a dead consumer.
//   - The returned error joins the run error and the consumer errors; the Summary is
//     filled in either case.
func Distribute(
	ctx context.Context, consumers int, e Enumerator, handle Handler, opts ...Option,
) (Summary, error) {
	d, err := New(opts...)
	if err != nil {
		return Summary{}, err
	}

	ch, err := d.Initialize(consumers)
	if err != nil {
		return Summary{}, err
	}

	start := time.Now()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g := startConsumers(ctx, consumers, ch, handle, func(error) { cancel() })

	admitted, runErr := d.Run(runCtx, e)
	consumed, consumeErr := g.Wait()

	s := Summary{
		RunID:    d.RunID(),
		Admitted: admitted,
		Consumed: consumed,
		Elapsed:  time.Since(start),
	}
	if runErr == nil {
		s.Markers = consumers
	}

	return s, errors.Join(runErr, consumeErr)
}
