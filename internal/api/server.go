// Package api holds the HTTP surfaces: the reference analysis backend router and the
// server lifecycle shared with the web UI.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mikey/phishguard/internal/ports"
	"go.uber.org/zap"
)

// Server runs an http.Handler until stopped
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer creates a server listening on addr
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      writeTimeout,
		},
		logger: logger,
	}
}

// Start implements ports.Server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("address", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop implements ports.Server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.httpServer.Shutdown(ctx)
}

var _ ports.Server = (*Server)(nil)
