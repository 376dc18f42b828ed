package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	config   *Config
	server   *http.Server
	services *Services
}

func New(config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	services, err := NewServices(config)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:   config,
		services: services,
		server: &http.Server{
			Addr:    config.HTTP.Addr,
			Handler: SetupRoutes(services),
		},
	}, nil
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	slog.Info("driveline server start")
	defer slog.Info("driveline server stop")

	if err := s.services.Start(ctx); err != nil {
		return fmt.Errorf("services start: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.runHttpServer(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		slog.Info("http server stopped")
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("driveline shutdown signal")
		return s.Stop(context.Background())
	})

	return g.Wait()
}

func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return s.services.Shutdown(shutdownCtx)
}

func (s *Server) runHttpServer() error {
	if s.config.HTTP.CertFile != "" && s.config.HTTP.KeyFile != "" {
		slog.Info("server start tls", "addr", s.config.HTTP.Addr, "cert", s.config.HTTP.CertFile, "key", s.config.HTTP.KeyFile)
		return s.server.ListenAndServeTLS(s.config.HTTP.CertFile, s.config.HTTP.KeyFile)
	}
	slog.Info("server start http", "addr", s.config.HTTP.Addr)
	return s.server.ListenAndServe()
}
