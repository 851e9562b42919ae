package distributor

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Handler processes one work item on the consumer side.
type Handler func(ctx context.Context, item WorkItem) error

type consumerKey struct{}

// ConsumerIndex returns the index of the consumer goroutine started by StartConsumers
// that is running the handler.
func ConsumerIndex(ctx context.Context) (int, bool) {
	i, ok := ctx.Value(consumerKey{}).(int)
	return i, ok
}

// Consume reads envelopes from ch and passes items to handle until a termination
// marker arrives, ch is closed or ctx is done. It returns the number of items handled.
//
// A handler error or panic stops this consumer; its termination marker stays unread.
func Consume(ctx context.Context, ch <-chan Envelope, handle Handler) (int, error) {
	n := 0
	for {
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		case env, ok := <-ch:
			if !ok {
				return n, nil
			}
			switch env.Kind {
			case KindTerminate:
				return n, nil
			case KindItem:
				if err := safeHandle(ctx, handle, env.Item); err != nil {
					return n, err
				}
				n++
			default:
				return n, illegalState("unknown envelope kind " + env.Kind.String())
			}
		}
	}
}

func safeHandle(ctx context.Context, handle Handler, item WorkItem) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanicked, p)
		}
	}()
	return handle(ctx, item)
}

// ConsumerGroup is a set of consumers started by StartConsumers.
type ConsumerGroup struct {
	wg       sync.WaitGroup
	mu       sync.Mutex
	consumed int
	errs     []error
	onError  func(error)
}

// StartConsumers launches n goroutines, each running Consume on ch with handle.
// The consumer index is available to handle through ConsumerIndex.
func StartConsumers(ctx context.Context, n int, ch <-chan Envelope, handle Handler) *ConsumerGroup {
	return startConsumers(ctx, n, ch, handle, nil)
}

func startConsumers(ctx context.Context, n int, ch <-chan Envelope, handle Handler, onError func(error)) *ConsumerGroup {
	g := &ConsumerGroup{onError: onError}
	for i := 0; i < n; i++ {
		g.wg.Add(1)
		go func(idx int) {
			defer g.wg.Done()
			c, err := Consume(context.WithValue(ctx, consumerKey{}, idx), ch, handle)
			g.record(idx, c, err)
		}(i)
	}
	return g
}

func (g *ConsumerGroup) record(idx, consumed int, err error) {
	g.mu.Lock()
	g.consumed += consumed
	if err != nil {
		err = fmt.Errorf("consumer %d: %w", idx, err)
		g.errs = append(g.errs, err)
	}
	g.mu.Unlock()

	if err != nil && g.onError != nil {
		g.onError(err)
	}
}

// Wait blocks until every consumer returned. It reports the total number of items
// handled and the joined consumer errors.
func (g *ConsumerGroup) Wait() (int, error) {
	g.wg.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.consumed, errors.Join(g.errs...)
}
