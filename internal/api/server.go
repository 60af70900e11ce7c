package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/MessBoT/internal/auth"
	"github.com/Kerhoff/MessBoT/internal/metrics"
	"github.com/Kerhoff/MessBoT/internal/models"
	"github.com/Kerhoff/MessBoT/internal/service"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options tunes the HTTP surface
type Options struct {
	// AllowedOrigins lists CORS origins; empty allows any origin
	AllowedOrigins []string
	// AuthRateLimit is the per-IP request budget per minute on the public
	// auth routes; zero disables the limit
	AuthRateLimit int
	// Development adds error details to 500 responses
	Development bool
}

// Server provides the JSON HTTP API.
type Server struct {
	svc     *service.Service
	tokens  *auth.Manager
	metrics *metrics.Metrics
	db      Pinger
	logger  *logrus.Logger
	opts    Options
	router  chi.Router
}

// NewServer creates a Server, registers all routes, and returns it. m and db
// may be nil.
func NewServer(svc *service.Service, tokens *auth.Manager, m *metrics.Metrics, db Pinger, logger *logrus.Logger, opts Options) *Server {
	s := &Server{
		svc:     svc,
		tokens:  tokens,
		metrics: m,
		db:      db,
		logger:  logger,
		opts:    opts,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)
	r.Use(s.corsHandler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondFailure(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", s.handleHealth)
	r.Get("/health/db", s.handleHealthDB)

	r.Route("/api", func(r chi.Router) {
		ownerOnly := s.requireRole(models.RoleMessOwner)

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(s.authRateLimit())
				r.Post("/register", s.handleRegister)
				r.Post("/login", s.handleLogin)
			})
			r.Group(func(r chi.Router) {
				r.Use(s.authenticate)
				r.Get("/me", s.handleProfile)
				r.Post("/telegram-link", s.handleTelegramLink)
			})
		})

		r.Route("/messes", func(r chi.Router) {
			r.Get("/", s.handleListMesses)
			r.With(s.authenticate, ownerOnly).Post("/", s.handleCreateMess)
			r.With(s.authenticate, ownerOnly).Get("/my", s.handleMyMesses)

			r.Route("/{messId}", func(r chi.Router) {
				r.Get("/", s.handleGetMess)
				r.Get("/plans", s.handleListPlans)

				r.Group(func(r chi.Router) {
					r.Use(s.authenticate, ownerOnly)
					r.Put("/", s.handleUpdateMess)
					r.Post("/plans", s.handleCreatePlan)
					r.Put("/plans/{planId}", s.handleUpdatePlan)
					r.Get("/today-summary", s.handleTodaySummary)
					r.Get("/today-summary/export", s.handleExportTodaySummary)
				})
			})
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Use(s.authenticate)
			r.Post("/", s.handleCreateSubscription)
			r.Get("/my", s.handleMySubscriptions)
			r.Patch("/{id}/cancel", s.handleCancelSubscription)
			r.Post("/{id}/attendance", s.handleMarkAttendance)
			r.Get("/{id}/attendance", s.handleGetAttendance)
		})
	})
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, healthResponse{Status: "ok", Timestamp: time.Now().UTC()})
}

func (s *Server) handleHealthDB(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.respondJSON(w, http.StatusInternalServerError, healthResponse{
			Status: "error", Timestamp: time.Now().UTC(), Message: "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		s.logger.WithError(err).Error("Database health check failed")
		s.respondJSON(w, http.StatusInternalServerError, healthResponse{
			Status: "error", Timestamp: time.Now().UTC(), Message: err.Error(),
		})
		return
	}
	s.respondJSON(w, http.StatusOK, healthResponse{Status: "connected", Timestamp: time.Now().UTC()})
}

// nonNil keeps empty lists serialized as [] instead of null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
