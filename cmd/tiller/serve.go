package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tillerhq/tiller/server"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API over HTTP",
		Long: `Exposes the listings search as an HTTP API:

  GET  /api/boats?query=...   matching listing ids
  POST /api/boats             same, query in a JSON body
  GET  /api/health            liveness and dataset size

Stops cleanly on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := buildEngine()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.New(eng, cfg.HTTPAddr).Serve(ctx)
		},
	}
}
