// Package web provides the HTTP server and handlers for the back-office console.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/backoffice/internal/config"
	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/navigation"
	"github.com/JonMunkholm/backoffice/internal/session"
	mw "github.com/JonMunkholm/backoffice/internal/web/middleware"
)

// Deps are the collaborators the server is built from.
type Deps struct {
	Service  *core.Service
	Sessions *session.Manager
	Menu     *navigation.Menu
	Config   *config.Config

	// Ping reports backing store health. May be nil.
	Ping func(ctx context.Context) error

	// Reset replaces all records with fresh mock data. The admin route is
	// only mounted when set.
	Reset func(ctx context.Context) error
}

// Server is the HTTP server for the console.
type Server struct {
	service  *core.Service
	sessions *session.Manager
	menu     *navigation.Menu
	cfg      *config.Config
	ping     func(ctx context.Context) error
	reset    func(ctx context.Context) error

	router   *chi.Mux
	server   *http.Server
	limiters []*rateLimiter
}

// NewServer creates a new Server instance.
func NewServer(d Deps) *Server {
	s := &Server{
		service:  d.Service,
		sessions: d.Sessions,
		menu:     d.Menu,
		cfg:      d.Config,
		ping:     d.Ping,
		reset:    d.Reset,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	// Security hardening
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.limiters = append(s.limiters, limiter)
		s.router.Use(limiter.middleware)
	}
}

// mutationLimit applies the stricter per-IP limit to state-changing routes.
func (s *Server) mutationLimit() func(http.Handler) http.Handler {
	if !s.cfg.Rate.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := newRateLimiter(s.cfg.Rate.MutationLimit, time.Minute)
	s.limiters = append(s.limiters, limiter)
	return limiter.middleware
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		r.Use(s.sessions.Middleware)

		// Pages
		r.Get("/", s.handleDashboard)
		r.Get("/audit-log", s.handleAuditLogPage)
		r.Route("/table/{tableKey}", s.tableRoutes)

		// API routes
		r.Route("/api", func(r chi.Router) {
			r.Use(mw.APIKeyAuth(&s.cfg.Security))

			r.Get("/tables", s.handleListTables)
			r.Route("/tables/{tableKey}", s.tableRoutes)

			r.Get("/audit-log", s.handleAuditLogQuery)
			r.Get("/audit-log/export", s.handleAuditLogExport)
			r.Get("/audit-log/{id}", s.handleAuditLogEntry)

			if s.reset != nil {
				r.With(s.mutationLimit()).Post("/admin/reset", s.handleReset)
			}
		})
	})
}

// tableRoutes are mounted for the HTML surface and mirrored under /api.
func (s *Server) tableRoutes(r chi.Router) {
	r.Get("/", s.handleTableView)

	r.Group(func(r chi.Router) {
		r.Use(s.mutationLimit())

		r.Post("/sort", s.handleSort)
		r.Post("/page", s.handlePage)
		r.Post("/page-size", s.handlePageSize)
		r.Post("/search", s.handleSearch)
		r.Post("/reload", s.handleReload)

		r.Post("/edit", s.handleBeginEdit)
		r.Post("/edit/draft", s.handleDraft)
		r.Post("/edit/commit", s.handleCommitEdit)
		r.Post("/edit/cancel", s.handleCancelEdit)

		r.Post("/rows/{rowID}/actions/{actionID}", s.handleRowAction)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, l := range s.limiters {
		l.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			// HTMX is loaded from unpkg; styles are inline
			if enableCSP {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
			}

			// Control referrer information
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
