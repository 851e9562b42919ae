package config

import (
	"io"
	"time"

	"golang.org/x/time/rate"

	"github.com/ygrebnov/distributor"
	"github.com/ygrebnov/distributor/iterators"
)

// Options translates the [distributor] section into distributor options.
func (c *Config) Options() []distributor.Option {
	d := c.Distributor
	opts := []distributor.Option{
		distributor.WithQueueSize(d.QueueSize),
		distributor.WithMaxWait(time.Duration(d.MaxWait)),
		distributor.WithParsePolicy(d.OnParseException),
		distributor.WithFetcherName(d.FetcherName),
		distributor.WithEmitterName(d.EmitterName),
	}
	if d.Rate > 0 {
		opts = append(opts, distributor.WithAdmissionRate(rate.Limit(d.Rate), d.Burst))
	}
	return opts
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Enumerator builds the enumerator selected by [iterator]. The closer releases any
// resource it opened and must be called after the run.
func (c *Config) Enumerator() (distributor.Enumerator, io.Closer, error) {
	it := c.Iterator
	switch it.Type {
	case "slice":
		return iterators.Keys(it.Keys...), nopCloser{}, nil
	case "filelist":
		return iterators.FileList{Path: it.Path}, nopCloser{}, nil
	case "filesystem":
		return iterators.FileSystem{BasePath: it.BasePath, Extensions: it.Extensions}, nopCloser{}, nil
	case "sqlite":
		db, err := iterators.OpenSQLite(it.Database)
		if err != nil {
			return nil, nil, err
		}
		return iterators.SQL{
			DB:             db,
			Query:          it.Query,
			IDColumn:       it.IDColumn,
			FetchKeyColumn: it.FetchKeyColumn,
			EmitKeyColumn:  it.EmitKeyColumn,
		}, db, nil
	}
	return nil, nil, c.validateIterator()
}
