package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/tillerhq/tiller/engine"
)

// ============================================================================
// HTTP SURFACE — the programmatic entry point
// ============================================================================
// One resource: /api/boats, reachable by GET with a query parameter or POST
// with a JSON body. The reply is the matching listing ids, nothing more — a
// storefront calling this already holds the listings and only needs to know
// which ones to show. Failures that mean "no usable expression" surface as
// an empty id list; failures of the generation service itself are the
// caller's problem and come back as 502.
// ============================================================================

// Server exposes an Engine over HTTP.
type Server struct {
	eng  *engine.Engine
	addr string
}

// New wraps eng in an HTTP server bound to addr.
func New(eng *engine.Engine, addr string) *Server {
	return &Server{eng: eng, addr: addr}
}

// Routes builds the router. Exposed so tests can drive it without a socket.
func (s *Server) Routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Get("/api/health", s.handleHealth)
	r.Route("/api/boats", func(r chi.Router) {
		r.Get("/", s.handleBoats)
		r.Post("/", s.handleBoats)
	})

	return r
}

// Serve runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	log.Printf("🌐 Tiller API: listening on %s", s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		log.Printf("🌐 Tiller API: shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
