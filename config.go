package distributor

import (
	"time"

	"github.com/ygrebnov/errorc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ygrebnov/distributor/metrics"
)

const (
	// DefaultQueueSize is the capacity of the distribution channel.
	DefaultQueueSize = 1000
	// DefaultMaxWait bounds a single admission.
	DefaultMaxWait = 300_000 * time.Millisecond
)

// config holds Distributor configuration. It is frozen by New.
type config struct {
	// QueueSize is the upper bound on not-yet-consumed values in the channel.
	// Default: 1000
	QueueSize int

	// MaxWait is how long an admission blocks before the run is declared stalled.
	// Zero makes every admission a non-blocking offer.
	// Default: 300s
	MaxWait time.Duration

	// OnParseFailure is stored and exposed to enumerators and consumers; the distributor never acts on it.
	// Default: ParsePolicyEmit
	OnParseFailure ParsePolicy

	// FetcherName and EmitterName are stamped on tuples built through Defaults.Tuple.
	FetcherName string
	EmitterName string

	// Logger receives run lifecycle events.
	// Default: zap.NewNop()
	Logger *zap.Logger

	// Metrics provides the distributor instruments.
	// Default: metrics.NoopProvider
	Metrics metrics.Provider

	// Rate throttles admissions when non-zero. The limiter wait is not counted against MaxWait.
	// Default: 0 (unlimited)
	Rate  rate.Limit
	Burst int
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		QueueSize:      DefaultQueueSize,
		MaxWait:        DefaultMaxWait,
		OnParseFailure: ParsePolicyEmit,
		Logger:         zap.NewNop(),
		Metrics:        metrics.NewNoopProvider(),
	}
}

// validateConfig checks invariants that individual options cannot see.
func validateConfig(cfg *config) error {
	switch {
	case cfg.QueueSize <= 0:
		return errorc.With(ErrInvalidConfig, errorc.String("", "queue size must be > 0"))
	case cfg.MaxWait < 0:
		return errorc.With(ErrInvalidConfig, errorc.String("", "max wait must be >= 0"))
	case cfg.Rate > 0 && cfg.Burst <= 0:
		return errorc.With(ErrInvalidConfig, errorc.String("", "admission burst must be > 0 when a rate is set"))
	}
	return nil
}
