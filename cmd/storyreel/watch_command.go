package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"storyreel/internal/daemon"
	"storyreel/internal/history"
	"storyreel/internal/logging"
	"storyreel/internal/recompute"
)

const logStreamCapacity = 2048

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var apiBind string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recompute the timeline whenever the story or transcript changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if bind := strings.TrimSpace(apiBind); bind != "" {
				cfg.Paths.APIBind = bind
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			hub := logging.NewStreamHub(logStreamCapacity)
			logger, err := logging.NewFromConfig(cfg, hub)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				logger.Error("open history", logging.Error(err))
				return err
			}
			defer store.Close()

			engine := recompute.New(cfg, logger,
				recompute.WithHistory(store),
				recompute.WithTimelineFile(cfg.TimelinePath()),
			)
			d, err := daemon.New(cfg, engine, logger,
				daemon.WithHistory(store),
				daemon.WithLogStream(hub),
			)
			if err != nil {
				return err
			}
			return d.Run(signalCtx)
		},
	}

	cmd.Flags().StringVar(&apiBind, "api", "", "Serve the HTTP API on this address (overrides paths.api_bind)")
	return cmd
}
