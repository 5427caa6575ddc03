package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/spherical/pdf-converter/internal/config"
	"github.com/spherical/pdf-converter/internal/convert"
	"github.com/spherical/pdf-converter/internal/observability"
	"github.com/spherical/pdf-converter/internal/supervisor"
	"github.com/spherical/pdf-converter/internal/upload"
	"github.com/spherical/pdf-converter/internal/workspace"
)

// Server owns the HTTP listener and the workspace it serves from.
type Server struct {
	cfg    *config.Config
	logger *observability.Logger
	ws     *workspace.Workspace
	srv    *http.Server
}

// NewServer prepares the workspace directories and wires the router. A
// workspace that cannot be created aborts startup.
func NewServer(cfg *config.Config, logger *observability.Logger) (*Server, error) {
	ws := workspace.New(cfg.Workspace.UploadDir, cfg.Workspace.OutputDir)
	if err := ws.Ensure(); err != nil {
		return nil, err
	}

	dispatcher := convert.NewDefaultDispatcher(ImageOptions(cfg.Convert))

	router := NewRouter(logger, Dependencies{
		Workspace:      ws,
		Store:          upload.NewStore(ws, cfg.Convert.UploadField, cfg.Convert.MaxUploadBytes),
		Resolver:       dispatcher,
		Formats:        dispatcher.Formats(),
		ConvertTimeout: cfg.Convert.Timeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ServiceName:    cfg.Observability.ServiceName,
	})

	return &Server{
		cfg:    cfg,
		logger: logger,
		ws:     ws,
		srv: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}, nil
}

// ImageOptions converts the raster settings of the config.
func ImageOptions(c config.ConvertConfig) convert.ImageOptions {
	return convert.ImageOptions{
		DPI:         c.ImageDPI,
		MaxWidth:    c.ImageMaxWidth,
		MaxHeight:   c.ImageMaxHeight,
		JPEGQuality: c.JPEGQuality,
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx is done or the listener fails, then shuts down within
// the configured grace period. Background work runs under sup.
func (s *Server) Run(ctx context.Context, sup *supervisor.Supervisor) error {
	if s.cfg.Workspace.StaleAfter > 0 {
		sup.Go("stale-sweep", func() error {
			removed, err := s.ws.Sweep(s.cfg.Workspace.StaleAfter)
			if removed > 0 {
				s.logger.Info().Int("removed", removed).Msg("Removed stale workspace files")
			}
			return err
		})
	}

	serverErrors := make(chan error, 1)
	sup.Go("http", func() error {
		s.logger.Info().Str("addr", s.srv.Addr).Msg("HTTP server listening")
		err := s.srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serverErrors <- err
		return err
	})

	var runErr error
	select {
	case err := <-serverErrors:
		runErr = err
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.GracefulShutdown)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := s.srv.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	s.logger.Info().Msg("Server stopped")
	return runErr
}
