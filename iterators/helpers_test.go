package iterators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/distributor"
)

// collect runs e on a consumer-less distributor large enough to hold everything and
// returns the admitted items in order.
func collect(t *testing.T, e distributor.Enumerator, opts ...distributor.Option) ([]distributor.WorkItem, error) {
	t.Helper()

	base := []distributor.Option{distributor.WithQueueSize(1024), distributor.WithMaxWait(0)}
	d, err := distributor.New(append(base, opts...)...)
	require.NoError(t, err)

	ch, err := d.Initialize(0)
	require.NoError(t, err)

	n, runErr := d.Run(context.Background(), e)

	var items []distributor.WorkItem
	for env := range ch {
		require.Equal(t, distributor.KindItem, env.Kind)
		items = append(items, env.Item)
	}
	require.Len(t, items, n)
	return items, runErr
}

func fetchKeys(items []distributor.WorkItem) []string {
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Fetch.Key
	}
	return keys
}
