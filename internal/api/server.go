// Copyright (c) 2026 Satori HQ. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/satori-hq/nft-series/internal/core/registry"
	"github.com/satori-hq/nft-series/internal/core/royalty"
	"github.com/satori-hq/nft-series/internal/core/series"
	"github.com/satori-hq/nft-series/internal/core/token"
	"github.com/satori-hq/nft-series/internal/platform/config"
	"github.com/satori-hq/nft-series/internal/platform/constants"
	"github.com/satori-hq/nft-series/internal/platform/deposit"
	"github.com/satori-hq/nft-series/internal/platform/entropy"
	"github.com/satori-hq/nft-series/internal/platform/middleware"
	"github.com/satori-hq/nft-series/internal/platform/webhook"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Registry serves contract-level metadata and the id format.
	Registry *registry.Handler

	// Series handles publication, management and minting.
	Series *series.Handler

	// Token handles ownership, approvals and transfers.
	Token *token.Handler

	// Royalty computes and settles sale payouts.
	Royalty *royalty.Handler

	// Webhook manages transfer-call receiver endpoints.
	Webhook *webhook.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(deposit.Middleware())
	r.Use(entropy.Middleware())
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix. Token and
	// royalty share the /tokens prefix on the same subrouter.
	r.Route("/api/v1", func(api chi.Router) {
		h.Registry.RegisterRoutes(api)
		h.Series.RegisterRoutes(api)
		h.Token.RegisterRoutes(api)
		h.Royalty.RegisterRoutes(api)
		api.Route("/receivers", func(receivers chi.Router) {
			h.Webhook.RegisterRoutes(receivers)
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
