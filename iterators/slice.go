package iterators

import (
	"context"

	"github.com/ygrebnov/distributor"
)

// Slice admits a fixed list of items in order.
type Slice []distributor.WorkItem

func (s Slice) Enumerate(ctx context.Context, a distributor.Admitter) error {
	for _, item := range s {
		if err := a.Admit(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// KeyList admits one tuple per key, with the key as both fetch and emit key. Tuples are
// built through Admitter defaults, so they carry the configured fetcher, emitter and
// parse-failure policy of the run.
type KeyList []string

// Keys returns a KeyList over keys.
func Keys(keys ...string) KeyList { return KeyList(keys) }

func (l KeyList) Enumerate(ctx context.Context, a distributor.Admitter) error {
	d := a.Defaults()
	for _, k := range l {
		if err := a.Admit(ctx, d.Tuple(k, k, k)); err != nil {
			return err
		}
	}
	return nil
}

// Stamp wraps e so that every admitted item missing a fetcher or emitter name gets the
// Admitter defaults. The parse-failure policy is left as the item carries it.
func Stamp(e distributor.Enumerator) distributor.Enumerator {
	return distributor.EnumeratorFunc(func(ctx context.Context, a distributor.Admitter) error {
		return e.Enumerate(ctx, stamper{a})
	})
}

type stamper struct{ distributor.Admitter }

func (s stamper) Admit(ctx context.Context, item distributor.WorkItem) error {
	d := s.Defaults()
	if item.Fetch.Name == "" {
		item.Fetch.Name = d.FetcherName
	}
	if item.Emit.Name == "" {
		item.Emit.Name = d.EmitterName
	}
	return s.Admitter.Admit(ctx, item)
}
