// Package distributor hands fetch-emit work items from a single producer to a fixed
// number of parallel consumers through a capacity-limited channel.
//
// Constructors
//   - New(opts ...Option): validates options and returns an uninitialized Distributor.
//   - Initialize(consumers): allocates the channel; must be called exactly once before Run.
//   - Distribute(ctx, consumers, enumerator, handler, opts...): one-shot helper that wires
//     New, Initialize, StartConsumers and Run.
//
// Defaults
// Unless overridden, the following defaults apply:
//   - QueueSize: 1000
//   - MaxWait: 300s
//   - ParsePolicy: emit
//   - Logger: zap.NewNop()
//   - Metrics: metrics.NoopProvider
//
// Admission
// Every item the Enumerator produces is pushed with Admitter.Admit, which blocks for at
// most MaxWait while the channel is full. A wait that elapses fails the whole run with a
// *TimeoutError: stalled consumers are reported, never absorbed. After the enumeration
// returns, one KindTerminate envelope per consumer is admitted under the same rule.
//
// Channel lifecycle
// The channel returned by Initialize carries Envelope values tagged KindItem or
// KindTerminate. A consumer stops at its first KindTerminate. The distributor closes the
// channel once Run returns, so a closed channel also means no more work.
//
// States
//
//	Uninitialized -> Initialized -> Running -> Completed | Failed
//
// A Distributor is single use; Run on a Completed or Failed distributor fails with
// ErrIllegalState.
package distributor
