// Package http exposes the finny services as a JSON API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"finny/internal/log"
	"finny/internal/middleware/ratelimit"
	"finny/internal/middleware/security"
	"finny/internal/services"
)

// SessionCookie carries the opaque session token.
const SessionCookie = "finny_session"

// Pinger reports storage health for /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators a Server needs. LoginLimiter, ClientIP,
// Logger and AllowedOrigins are optional.
type Deps struct {
	Finance        *services.Finance
	Sessions       *services.SessionRegistry
	Health         Pinger
	LoginLimiter   *ratelimit.Limiter
	ClientIP       func(*http.Request) string
	Logger         *log.Logger
	AllowedOrigins []string
	UpcomingDays   int
	Now            func() time.Time
}

type Server struct {
	http.Server
	finance      *services.Finance
	sessions     *services.SessionRegistry
	health       Pinger
	logger       *log.Logger
	upcomingDays int
	now          func() time.Time
}

// NewServer builds the router and wraps it in an http.Server listening on addr.
func NewServer(addr string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = log.New(log.DefaultConfig())
	}
	if deps.ClientIP == nil {
		deps.ClientIP = security.NewClientResolver().ClientIP
	}
	if deps.UpcomingDays <= 0 {
		deps.UpcomingDays = defaultUpcomingDays
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := &Server{
		finance:      deps.Finance,
		sessions:     deps.Sessions,
		health:       deps.Health,
		logger:       deps.Logger.WithComponent(log.ComponentHTTP),
		upcomingDays: deps.UpcomingDays,
		now:          deps.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(log.Middleware(s.logger, deps.ClientIP))
	r.Use(middleware.Recoverer)
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(api chi.Router) {
		api.Group(func(public chi.Router) {
			if deps.LoginLimiter != nil {
				public.Use(deps.LoginLimiter.Middleware(deps.ClientIP, s.handleRateLimited))
			}
			public.Post("/register", s.handleRegister)
			public.Post("/login", s.handleLogin)
		})

		api.Group(func(private chi.Router) {
			private.Use(s.requireSession)

			private.Post("/logout", s.handleLogout)

			private.Get("/transactions", s.handleListTransactions)
			private.Post("/transactions", s.handleCreateTransaction)
			private.Delete("/transactions/{id}", s.handleDeleteTransaction)

			private.Get("/reminders", s.handleListReminders)
			private.Post("/reminders", s.handleCreateReminder)
			private.Get("/reminders/upcoming", s.handleUpcomingReminders)
			private.Delete("/reminders/{id}", s.handleDeleteReminder)

			private.Get("/budget", s.handleGetBudget)
			private.Put("/budget", s.handleSetBudget)

			private.Get("/dashboard", s.handleDashboard)
		})
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(ctx, "Readiness check failed", log.FieldError, err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many attempts, try again later"})
}
