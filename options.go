package distributor

import (
	"strconv"
	"time"

	"github.com/ygrebnov/errorc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ygrebnov/distributor/metrics"
)

// Option configures a Distributor. Options are applied by New, before any channel exists.
type Option func(*config) error

// WithQueueSize sets the capacity of the distribution channel (must be > 0).
func WithQueueSize(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "queue size must be > 0, got "+strconv.Itoa(n)))
		}
		cfg.QueueSize = n
		return nil
	}
}

// WithMaxWait sets how long a single admission may block (must be >= 0).
func WithMaxWait(d time.Duration) Option {
	return func(cfg *config) error {
		if d < 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "max wait must be >= 0, got "+d.String()))
		}
		cfg.MaxWait = d
		return nil
	}
}

// WithParsePolicy sets the parse-failure policy exposed to enumerators and consumers.
func WithParsePolicy(p ParsePolicy) Option {
	return func(cfg *config) error {
		if p != ParsePolicyEmit && p != ParsePolicySkip {
			return errorc.With(ErrInvalidConfig, errorc.String("", "unknown parse policy "+p.String()))
		}
		cfg.OnParseFailure = p
		return nil
	}
}

// WithParsePolicyString parses "skip" or "emit" (any case). Other values are rejected.
func WithParsePolicyString(s string) Option {
	return func(cfg *config) error {
		p, err := ParseParsePolicy(s)
		if err != nil {
			return err
		}
		cfg.OnParseFailure = p
		return nil
	}
}

// WithFetcherName sets the fetcher name stamped by Defaults.Tuple.
func WithFetcherName(name string) Option {
	return func(cfg *config) error { cfg.FetcherName = name; return nil }
}

// WithEmitterName sets the emitter name stamped by Defaults.Tuple.
func WithEmitterName(name string) Option {
	return func(cfg *config) error { cfg.EmitterName = name; return nil }
}

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) error {
		if l != nil {
			cfg.Logger = l
		}
		return nil
	}
}

// WithMetrics sets the metrics provider. A nil provider keeps the no-op default.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p != nil {
			cfg.Metrics = p
		}
		return nil
	}
}

// WithAdmissionRate throttles admissions to r per second with the given burst (must be > 0).
func WithAdmissionRate(r rate.Limit, burst int) Option {
	return func(cfg *config) error {
		if r <= 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "admission rate must be > 0"))
		}
		if burst <= 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "admission burst must be > 0, got "+strconv.Itoa(burst)))
		}
		cfg.Rate = r
		cfg.Burst = burst
		return nil
	}
}
