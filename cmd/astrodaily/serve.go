package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mmcdole/astrodaily/internal/httpapi"
	"github.com/mmcdole/astrodaily/internal/telemetry"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve entries, images and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			metrics := telemetry.NewMetrics()

			a, err := newApp(cmd, opts, metrics)
			if err != nil {
				return err
			}
			defer a.Close()

			gin.SetMode(gin.ReleaseMode)
			handler := httpapi.NewHandler(a.resolver, a.images, a.store, httpapi.WithImageHosts(a.cfg.Server.ImageHosts...))
			router := httpapi.NewRouter(handler, metrics.Handler(), a.logger)

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return httpapi.Serve(ctx, a.cfg.Server.Listen, router, a.logger)
		},
	}
	cmd.Flags().String("listen", "", "Listen address (default 127.0.0.1:8080)")
	return cmd
}
