package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jonesrussell/easyinterns/internal/config"
	"github.com/jonesrussell/easyinterns/internal/logger"
)

// Server wraps the HTTP server with graceful shutdown.
type Server struct {
	logger logger.Interface
	srv    *http.Server
}

// NewServer builds the router and HTTP server from configuration.
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	router := SetupRouter(deps)

	return &Server{
		logger: deps.Logger.WithComponent("api"),
		srv: &http.Server{
			Addr:              cfg.Address,
			Handler:           router,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// Start serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", "address", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
