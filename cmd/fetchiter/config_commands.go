package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ygrebnov/distributor/config"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(ctx.configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (iterator=%s, consumers=%d, queue_size=%d)\n",
				ctx.configPath, cfg.Iterator.Type, cfg.Distributor.Consumers, cfg.Distributor.QueueSize)
			return nil
		},
	}
}

func newSampleConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sample-config",
		Short: "Print an annotated configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), config.Sample())
			return err
		},
	}
}
