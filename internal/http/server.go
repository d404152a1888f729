// Package http wires the route table, metrics and the server lifecycle.
package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeroends/skinhub/internal/observability/logger"
)

const shutdownTimeout = 10 * time.Second

// Server runs the HTTP listener with graceful shutdown.
type Server struct {
	srv *stdhttp.Server
}

// NewServer creates the server with conservative timeouts. Uploads go through
// the body, so the write timeout leaves room for the upstream call.
func NewServer(addr string, handler stdhttp.Handler) *Server {
	return &Server{
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	log := logger.L().With(logger.Component("http.server"))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("listening", logger.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info("shutting down")
		return s.srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
