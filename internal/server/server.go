package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hongminglow/messagely-be/internal/auth"
	"github.com/hongminglow/messagely-be/internal/config"
	"github.com/hongminglow/messagely-be/internal/http/handlers"
	"github.com/hongminglow/messagely-be/internal/middleware"
	"github.com/hongminglow/messagely-be/internal/service"
	"github.com/hongminglow/messagely-be/internal/storage"
)

// Store is the persistence the server is assembled on.
type Store interface {
	handlers.Pinger
	storage.UserStore
	storage.MessageStore
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// Dependencies are the explicit collaborators handed to the router.
type Dependencies struct {
	Users    handlers.UserDirectory
	Messages handlers.MessageLedger
	Tokens   *auth.TokenManager
	DB       handlers.Pinger
	Logger   *zap.Logger
	Registry *prometheus.Registry
}

// New builds the user directory and message ledger on store, wires middleware
// and routes, and returns a ready server.
func New(cfg config.Config, store Store, log *zap.Logger) (*Server, error) {
	users, err := service.NewUsers(store, auth.NewPasswordHasher(cfg.BcryptCost))
	if err != nil {
		return nil, fmt.Errorf("init user directory: %w", err)
	}

	router, err := NewRouter(cfg, Dependencies{
		Users:    users,
		Messages: service.NewMessages(store),
		Tokens:   auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL),
		DB:       store,
		Logger:   log,
		Registry: prometheus.NewRegistry(),
	})
	if err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}, nil
}

// NewRouter assembles the chi router from deps.
func NewRouter(cfg config.Config, deps Dependencies) (http.Handler, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{Registerer: registry})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimw.Recoverer)
	r.Use(metrics.Handler)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	handlers.NewHealthHandler(time.Now(), deps.DB).Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	handlers.NewAuthHandler(deps.Users, deps.Tokens, log).Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Tokens, log))
		handlers.NewUserHandler(deps.Users, log).Register(r)
		handlers.NewMessageHandler(deps.Messages, log).Register(r)
	})

	return r, nil
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
