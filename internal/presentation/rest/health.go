package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes liveness, readiness and Prometheus metrics over HTTP,
// alongside the main gRPC listener.
type Server struct {
	server *http.Server
	logger *slog.Logger

	serviceName string
	ready       func(context.Context) error
}

// NewServer builds the operational HTTP server. The ready probe may be nil,
// in which case readiness mirrors liveness.
func NewServer(addr, serviceName string, ready func(context.Context) error, logger *slog.Logger) *Server {
	s := &Server{
		logger:      logger,
		serviceName: serviceName,
		ready:       ready,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start serves until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve http: %w", err)
	}
	return nil
}

// Stop shuts the server down, waiting for in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("http server stopping")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeStatus(w, http.StatusOK, "up")
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.logger.Warn("readiness probe failed", "error", err)
			s.writeStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	s.writeStatus(w, http.StatusOK, "ready")
}

func (s *Server) writeStatus(w http.ResponseWriter, code int, state string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"service": s.serviceName,
		"status":  state,
	})
}
