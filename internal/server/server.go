// Package server hosts the HTTP API for the duel service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/Crown-Of-Wealth/Battlement-Game/internal/duel/service"
	"github.com/Crown-Of-Wealth/Battlement-Game/internal/platform/timeouts"
)

// Server hosts the duel HTTP API.
type Server struct {
	addr       string
	httpServer *http.Server
}

// New creates a configured server listening on the provided address.
func New(addr string, duels *service.Service, height HeightSource) *Server {
	if height == nil {
		height = UnixHeight{}
	}
	handler := NewHandler(duels, height)
	return &Server{
		addr: addr,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	log.Printf("battlement listening on %s", s.addr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
