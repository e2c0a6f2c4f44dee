// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

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

	"github.com/fleetdesk/fleetdesk/internal/core/calendar"
	"github.com/fleetdesk/fleetdesk/internal/core/driver"
	"github.com/fleetdesk/fleetdesk/internal/core/tour"
	"github.com/fleetdesk/fleetdesk/internal/core/vehicle"
	"github.com/fleetdesk/fleetdesk/internal/notify"
	"github.com/fleetdesk/fleetdesk/internal/platform/config"
	"github.com/fleetdesk/fleetdesk/internal/platform/constants"
	"github.com/fleetdesk/fleetdesk/internal/platform/middleware"
	"github.com/fleetdesk/fleetdesk/internal/users/account"
	"github.com/fleetdesk/fleetdesk/internal/users/auth"
	"github.com/fleetdesk/fleetdesk/internal/users/organization"
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

	// Auth handles signup, login, refresh, and logout.
	Auth *auth.Handler

	// Account handles the caller's profile and member administration.
	Account *account.Handler

	// Organization handles tenant settings.
	Organization *organization.Handler

	// Vehicle manages the fleet.
	Vehicle *vehicle.Handler

	// Driver manages drivers and their notes.
	Driver *driver.Handler

	// Tour manages the contracted-tour lifecycle.
	Tour *tour.Handler

	// Calendar serves the month view and custom events.
	Calendar *calendar.Handler

	// Notify serves the document-expiry badge.
	Notify *notify.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// Everything under /api/v1 except /auth sits behind the identity middleware:
// the caller's role and organization are re-resolved from the store on every
// request before any permission check runs.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, resolver middleware.IdentityResolver, h Handlers) *Server {
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
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", h.Auth.RegisterRoutes)

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.Identity(resolver))

			protected.Route("/users", h.Account.RegisterRoutes)
			protected.Route("/organization", h.Organization.RegisterRoutes)
			protected.Route("/vehicles", h.Vehicle.RegisterRoutes)
			protected.Route("/drivers", h.Driver.RegisterRoutes)
			protected.Route("/tours", h.Tour.RegisterRoutes)
			protected.Route("/calendar", h.Calendar.RegisterRoutes)
			protected.Route("/notifications", h.Notify.RegisterRoutes)
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
