package main

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ygrebnov/distributor"
	"github.com/ygrebnov/distributor/config"
	"github.com/ygrebnov/distributor/metrics"
	"github.com/ygrebnov/distributor/metrics/prom"
)

type runFlags struct {
	consumers   int
	queueSize   int
	maxWait     time.Duration
	json        bool
	metricsFile string
}

// assignment records which consumer received an item.
type assignment struct {
	Consumer int                  `json:"consumer"`
	Item     distributor.WorkItem `json:"item"`
}

// recorder is the dry-run consumer: it only notes what it was given.
type recorder struct {
	mu   sync.Mutex
	rows []assignment
}

func (r *recorder) handle(ctx context.Context, item distributor.WorkItem) error {
	idx, _ := distributor.ConsumerIndex(ctx)
	r.mu.Lock()
	r.rows = append(r.rows, assignment{Consumer: idx, Item: item})
	r.mu.Unlock()
	return nil
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Enumerate the configured source and distribute it to dry-run consumers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(ctx.configPath)
			if err != nil {
				return err
			}
			applyRunFlags(cmd, cfg, flags)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			e, closer, err := cfg.Enumerator()
			if err != nil {
				return err
			}
			defer closer.Close()

			provider := metrics.NewBasicProvider()
			var registry *prometheus.Registry
			var sink metrics.Provider = provider
			if flags.metricsFile != "" {
				registry = prometheus.NewRegistry()
				sink = metrics.Tee(provider, prom.New(registry))
			}
			opts := append(cfg.Options(),
				distributor.WithLogger(logger.Named("distributor")),
				distributor.WithMetrics(sink),
			)

			rec := &recorder{}
			summary, runErr := distributor.Distribute(cmd.Context(), cfg.Distributor.Consumers, e, rec.handle, opts...)
			if runErr != nil {
				logger.Error("run failed", zap.String("run_id", summary.RunID), zap.Error(runErr))
			}

			if registry != nil {
				if err := prometheus.WriteToTextfile(flags.metricsFile, registry); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if flags.json || !isTerminal(out) {
				if err := writeJSON(out, rec.rows, summary); err != nil {
					return err
				}
			} else {
				writeTables(out, rec.rows, summary, provider.Snapshot())
			}
			return runErr
		},
	}

	cmd.Flags().IntVar(&flags.consumers, "consumers", 0, "Override distributor.consumers")
	cmd.Flags().IntVar(&flags.queueSize, "queue-size", 0, "Override distributor.queue_size")
	cmd.Flags().DurationVar(&flags.maxWait, "max-wait", 0, "Override distributor.max_wait")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Write JSON lines even on a terminal")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")

	return cmd
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config, flags runFlags) {
	if cmd.Flags().Changed("consumers") {
		cfg.Distributor.Consumers = flags.consumers
	}
	if cmd.Flags().Changed("queue-size") {
		cfg.Distributor.QueueSize = flags.queueSize
	}
	if cmd.Flags().Changed("max-wait") {
		cfg.Distributor.MaxWait = config.Duration(flags.maxWait)
	}
}
