// Package api exposes the inference service over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"altcred/internal/common/config"
	"altcred/internal/common/logger"
	"altcred/internal/common/observability"
	"altcred/internal/inference"
	"altcred/internal/profiles"
)

// Server is the inference HTTP API.
type Server struct {
	httpServer   *http.Server
	service      *inference.Service
	profiles     profiles.Store
	obs          *observability.Observability
	logger       logger.Logger
	maxBodyBytes int64
	checks       []ReadinessCheck
}

// ReadinessCheck reports whether one backing dependency is reachable for GET /ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// New wires routes and middleware. obs may be nil. Every check must pass
// for /ready to report ready.
func New(cfg config.ServerConfig, svc *inference.Service, store profiles.Store, obs *observability.Observability, log logger.Logger, checks ...ReadinessCheck) *Server {
	s := &Server{
		service:      svc,
		profiles:     store,
		obs:          obs,
		logger:       log.WithFields(map[string]interface{}{"component": "api"}),
		maxBodyBytes: cfg.MaxBodyBytes,
		checks:       checks,
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = 1 << 20
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /score", s.handleScore)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("GET /samples", s.handleListSamples)
	mux.HandleFunc("GET /samples/{id}", s.handleGetSample)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.withRequestID(s.withLogging(mux)),
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
	}
	return s
}

// Handler returns the root handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe blocks until the server stops. A graceful shutdown is not
// reported as an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("inference API listening", map[string]interface{}{
		"addr": s.httpServer.Addr,
		"mode": s.service.Mode(),
	})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
