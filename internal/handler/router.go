package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hpnchanel/todoapi/internal/middleware"
	"github.com/hpnchanel/todoapi/internal/service"
)

// RouterConfig holds everything the HTTP router needs.
type RouterConfig struct {
	Logger  *slog.Logger
	Users   *service.UserService
	Todos   *service.TodoService
	Health  *HealthHandler
	Metrics *MetricsHandler

	// RateLimit configures Redis-backed limiting; a nil Limiter disables it.
	RateLimit middleware.RateLimitConfig
	CORS      middleware.CORSConfig
	// IsDevelopment disables HSTS.
	IsDevelopment bool
	// MaxBodySize caps request bodies; zero disables the cap.
	MaxBodySize int64
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := New(logger)
	users := NewUserHandler(cfg.Users, logger)
	todos := NewTodoHandler(cfg.Todos, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxBodySize))
	}

	// Probes and metrics (no auth required)
	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Healthz)
		r.Get("/readyz", cfg.Health.Readyz)
	}
	if cfg.Metrics != nil {
		r.Get("/metrics", cfg.Metrics.Metrics)
	}

	r.Get("/", h.Index)

	authenticate := middleware.Authenticate(middleware.AuthConfig{
		Logger:   logger,
		Resolver: cfg.Users,
		ErrAuth:  service.ErrAuth,
	})

	rateLimitCfg := cfg.RateLimit
	rateLimitCfg.Logger = logger
	if rateLimitCfg.Limiter == nil {
		rateLimitCfg.Enabled = false
	}

	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/", h.Wrap(users.Signup))
		r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/login", h.Wrap(users.Login))

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RateLimitUser(rateLimitCfg))

			r.Get("/me", h.Wrap(users.Me))
			r.Delete("/me/token", h.Wrap(users.Logout))
		})
	})

	r.Route("/todos", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RateLimitUser(rateLimitCfg))

		r.Post("/", h.Wrap(todos.Create))
		r.Get("/", h.Wrap(todos.List))
		r.Get("/{id}", h.Wrap(todos.Get))
		r.Delete("/{id}", h.Wrap(todos.Delete))
		r.Patch("/{id}", h.Wrap(todos.Update))
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
