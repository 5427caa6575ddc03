package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spherical/pdf-converter/internal/api"
	"github.com/spherical/pdf-converter/internal/config"
	"github.com/spherical/pdf-converter/internal/observability"
	"github.com/spherical/pdf-converter/internal/supervisor"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger := observability.NewLogger(observability.LogConfig{
				Level:       cfg.Observability.LogLevel,
				Format:      cfg.Observability.LogFormat,
				Output:      cmd.OutOrStdout(),
				ServiceName: cfg.Observability.ServiceName,
			})

			sup := supervisor.New(logger)
			defer sup.Recover()

			srv, err := api.NewServer(cfg, logger)
			if err != nil {
				return fmt.Errorf("prepare server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Run(ctx, sup)
		},
	}
}
