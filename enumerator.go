package distributor

import "context"

// Admitter is handed to an Enumerator for the duration of one run.
// Admit must be called from the goroutine running Enumerate and must not be
// retained after Enumerate returns.
type Admitter interface {
	// Admit pushes item onto the distribution channel, blocking up to the configured wait.
	// It returns a *TimeoutError when no consumer made room in time, or an error wrapping
	// ErrInterrupted when ctx is done first. Once an admission fails, every later call
	// returns the same error.
	Admit(ctx context.Context, item WorkItem) error

	// Defaults returns the fetcher name, emitter name and parse policy of the distributor.
	Defaults() Defaults
}

// Enumerator produces work items and admits each of them.
// It returns nil once its source is exhausted. Errors are propagated by Run unchanged.
type Enumerator interface {
	Enumerate(ctx context.Context, a Admitter) error
}

// EnumeratorFunc adapts a function to Enumerator.
type EnumeratorFunc func(ctx context.Context, a Admitter) error

func (f EnumeratorFunc) Enumerate(ctx context.Context, a Admitter) error { return f(ctx, a) }
