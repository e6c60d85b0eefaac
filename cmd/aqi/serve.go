package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aouyang1/go-aqi-forecaster/server"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		address   string
		lazy      bool
		accessLog bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve forecasts over http",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pipeline, resources, err := newPipeline(ctx)
			if err != nil {
				return err
			}

			if !lazy {
				if err := resources.Warm(ctx); err != nil {
					return fmt.Errorf("unable to load resources, %w", err)
				}
			}

			opt := server.Options{
				Address:         cfg.HTTP.Address,
				ReadTimeout:     cfg.HTTP.ReadTimeout,
				WriteTimeout:    cfg.HTTP.WriteTimeout,
				ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
				DefaultDays:     cfg.Forecast.DefaultDays,
				ShowComponents:  cfg.Forecast.ShowComponents,
			}
			if address != "" {
				opt.Address = address
			}
			if accessLog {
				opt.AccessLog = os.Stdout
			}

			srv := server.New(pipeline, resources.Warm, opt, slog.Default())
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "listen address (overrides http.address)")
	cmd.Flags().BoolVar(&lazy, "lazy", false, "load the model and history on the first request instead of at startup")
	cmd.Flags().BoolVar(&accessLog, "access-log", true, "write combined access logs to stdout")
	return cmd
}
