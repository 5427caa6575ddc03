// Package main provides the PDF converter API server entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spherical/pdf-converter/internal/api"
	"github.com/spherical/pdf-converter/internal/config"
	"github.com/spherical/pdf-converter/internal/observability"
	"github.com/spherical/pdf-converter/internal/supervisor"
)

func main() {
	// Load configuration
	cfgPath := ""
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})

	sup := supervisor.New(logger)
	defer sup.Recover()

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("uploads", cfg.Workspace.UploadDir).
		Str("outputs", cfg.Workspace.OutputDir).
		Dur("convert_timeout", cfg.Convert.Timeout).
		Msg("Starting PDF converter API")

	srv, err := api.NewServer(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to prepare server")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, sup); err != nil {
		logger.Error().Err(err).Msg("Server error")
		stop()
		os.Exit(1)
	}
}
