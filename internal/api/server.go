// Package api exposes the adapter over HTTP.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/bitcoin-adapter/internal/adapter"
	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
	"github.com/vietddude/bitcoin-adapter/internal/health"
)

// Service is the adapter surface served over HTTP.
type Service interface {
	Connect(ctx context.Context, req adapter.ConnectionRequest) (*adapter.Account, error)
	Disconnect(ctx context.Context, id string) error
	Connectors() []adapter.ConnectorInfo
	Networks() []domain.Network
	GetBalance(ctx context.Context, q adapter.BalanceQuery) (*domain.Balance, error)
}

// HealthReporter produces the system health report.
type HealthReporter interface {
	CheckHealth(ctx context.Context) health.HealthReport
}

// ServerOption configures the router.
type ServerOption func(*serverConfig)

type serverConfig struct {
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	log            *slog.Logger
}

// WithMiddlewares adds middleware to the router
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithRequestTimeout bounds every request's context.
func WithRequestTimeout(d time.Duration) ServerOption {
	return func(cfg *serverConfig) {
		cfg.requestTimeout = d
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(cfg *serverConfig) {
		cfg.log = l
	}
}

// NewRouter creates the HTTP router for svc.
func NewRouter(svc Service, monitor HealthReporter, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{log: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware(cfg.log))
	if cfg.requestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.requestTimeout))
	}
	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	h := &handlers{svc: svc, monitor: monitor, log: cfg.log}

	r.Get("/health", h.health)
	r.Get("/health/detailed", h.healthDetailed)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/networks", h.listNetworks)
		r.Get("/connectors", h.listConnectors)
		r.Post("/connect", h.connect)
		r.Delete("/connectors/{id}", h.disconnect)
		r.Get("/balance", h.balance)
	})

	return r
}

func loggingMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// Server runs the HTTP API.
type Server struct {
	server *http.Server
}

// NewServer creates a server for handler on port.
func NewServer(handler http.Handler, port int) *Server {
	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start blocks serving requests until Stop.
func (s *Server) Start() error {
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
