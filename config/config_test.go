package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/distributor"
)

func TestDefault_Values(t *testing.T) {
	cfg := Default()
	require.Equal(t, distributor.DefaultQueueSize, cfg.Distributor.QueueSize)
	require.Equal(t, 300*time.Second, time.Duration(cfg.Distributor.MaxWait))
	require.Equal(t, 1, cfg.Distributor.Consumers)
	require.Equal(t, distributor.ParsePolicyEmit, cfg.Distributor.OnParseException)
}

func TestParse_Sample(t *testing.T) {
	cfg, err := Parse([]byte(Sample()))
	require.NoError(t, err)

	require.Equal(t, 1000, cfg.Distributor.QueueSize)
	require.Equal(t, 5*time.Minute, time.Duration(cfg.Distributor.MaxWait))
	require.Equal(t, 4, cfg.Distributor.Consumers)
	require.Equal(t, "filesystem", cfg.Iterator.Type)
	require.Equal(t, []string{".pdf", ".docx"}, cfg.Iterator.Extensions)
}

func TestParse_PolicyCaseInsensitive(t *testing.T) {
	cfg, err := Parse([]byte(`
[distributor]
on_parse_exception = "SKIP"
[iterator]
type = "Slice"
keys = ["a"]
extensions = ["pdf"]
`))
	require.NoError(t, err)
	require.Equal(t, distributor.ParsePolicySkip, cfg.Distributor.OnParseException)
	require.Equal(t, "slice", cfg.Iterator.Type)
	require.Equal(t, []string{".pdf"}, cfg.Iterator.Extensions)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantMsg string
		invalid bool
	}{
		{
			name:    "unknown policy",
			data:    "[distributor]\non_parse_exception = \"retry\"\n[iterator]\ntype = \"slice\"\n",
			wantMsg: "must be either 'skip' or 'emit': retry",
		},
		{
			name:    "bad duration",
			data:    "[distributor]\nmax_wait = \"soon\"\n[iterator]\ntype = \"slice\"\n",
			wantMsg: "max_wait",
		},
		{
			name:    "unknown key",
			data:    "[distributor]\nqueue = 3\n[iterator]\ntype = \"slice\"\n",
			wantMsg: "parse config",
		},
		{
			name:    "zero queue",
			data:    "[distributor]\nqueue_size = 0\n[iterator]\ntype = \"slice\"\n",
			wantMsg: "queue_size",
			invalid: true,
		},
		{
			name:    "negative consumers",
			data:    "[distributor]\nconsumers = -1\n[iterator]\ntype = \"slice\"\n",
			wantMsg: "consumers",
			invalid: true,
		},
		{
			name:    "rate without burst",
			data:    "[distributor]\nrate = 5.0\n[iterator]\ntype = \"slice\"\n",
			wantMsg: "burst",
			invalid: true,
		},
		{
			name:    "missing iterator type",
			data:    "[distributor]\n",
			wantMsg: "iterator.type is required",
			invalid: true,
		},
		{
			name:    "unknown iterator type",
			data:    "[iterator]\ntype = \"s3\"\n",
			wantMsg: `unknown iterator.type "s3"`,
			invalid: true,
		},
		{
			name:    "filelist without path",
			data:    "[iterator]\ntype = \"filelist\"\n",
			wantMsg: "iterator.path",
			invalid: true,
		},
		{
			name:    "filesystem without base path",
			data:    "[iterator]\ntype = \"filesystem\"\n",
			wantMsg: "iterator.base_path",
			invalid: true,
		},
		{
			name:    "sqlite without query",
			data:    "[iterator]\ntype = \"sqlite\"\ndatabase = \"x.db\"\n",
			wantMsg: "iterator.query",
			invalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.data))
			require.Error(t, err)
			require.Nil(t, cfg)
			require.ErrorContains(t, err, tt.wantMsg)
			if tt.invalid {
				require.ErrorIs(t, err, distributor.ErrInvalidConfig)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "list.txt")
	require.NoError(t, os.WriteFile(list, []byte("a\nb\nc\n"), 0o644))

	path := filepath.Join(dir, "fetchiter.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[distributor]
queue_size = 2
max_wait = "1s"
consumers = 2
fetcher_name = "fs"
[iterator]
type = "filelist"
path = "`+filepath.ToSlash(list)+`"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	e, closer, err := cfg.Enumerator()
	require.NoError(t, err)
	defer closer.Close()

	handle := func(_ context.Context, item distributor.WorkItem) error {
		require.Equal(t, "fs", item.Fetch.Name)
		return nil
	}
	s, err := distributor.Distribute(context.Background(), cfg.Distributor.Consumers, e, handle, cfg.Options()...)
	require.NoError(t, err)
	require.Equal(t, 3, s.Admitted)
	require.Equal(t, 3, s.Consumed)
	require.Equal(t, 2, s.Markers)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOptions_Rate(t *testing.T) {
	cfg := Default()
	cfg.Distributor.Rate = 100
	cfg.Distributor.Burst = 10

	d, err := distributor.New(cfg.Options()...)
	require.NoError(t, err)
	require.Equal(t, distributor.DefaultQueueSize, d.QueueSize())
}

func TestEnumerator_SQLite(t *testing.T) {
	cfg := Default()
	cfg.Iterator = Iterator{
		Type:           "sqlite",
		Database:       filepath.Join(t.TempDir(), "q.db"),
		Query:          "SELECT 'x.pdf' AS path",
		FetchKeyColumn: "path",
	}
	require.NoError(t, cfg.Validate())

	e, closer, err := cfg.Enumerator()
	require.NoError(t, err)
	defer closer.Close()

	s, err := distributor.Distribute(context.Background(), 1, e,
		func(_ context.Context, item distributor.WorkItem) error {
			require.Equal(t, "x.pdf", item.Fetch.Key)
			return nil
		})
	require.NoError(t, err)
	require.Equal(t, 1, s.Admitted)
}

func TestEnumerator_SliceCarriesPolicy(t *testing.T) {
	cfg, err := Parse([]byte(`
[distributor]
on_parse_exception = "skip"
fetcher_name = "fs"

[iterator]
type = "slice"
keys = ["a", "b"]
`))
	require.NoError(t, err)

	e, closer, err := cfg.Enumerator()
	require.NoError(t, err)
	defer closer.Close()

	d, err := distributor.New(cfg.Options()...)
	require.NoError(t, err)
	ch, err := d.Initialize(0)
	require.NoError(t, err)

	n, err := d.Run(context.Background(), e)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	for env := range ch {
		require.Equal(t, distributor.ParsePolicySkip, env.Item.OnParseFailure)
		require.Equal(t, "fs", env.Item.Fetch.Name)
	}
}
