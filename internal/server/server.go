package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/atsushifx/aglabo-error-core/internal/logging"
	"github.com/atsushifx/aglabo-error-core/internal/report"
)

const shutdownGrace = 5 * time.Second

// Server serves the reporter's health and metrics endpoints.
type Server struct {
	addr     string
	metrics  *Metrics
	logger   logging.Logger
	security SecurityConfig
}

// New creates a Server listening on addr once Run is called.
func New(addr string, logger logging.Logger) *Server {
	return &Server{
		addr:     addr,
		metrics:  NewMetrics(),
		logger:   logger,
		security: DefaultSecurityConfig(),
	}
}

// Sink returns a report.Sink that feeds the server's stream metrics.
func (s *Server) Sink() report.Sink {
	return MetricsSink{Metrics: s.metrics}
}

// routes builds the request multiplexer with the middleware chain applied.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.wrap(s.handleHealth))
	mux.HandleFunc("/metrics", s.wrap(s.handleMetrics))
	return mux
}

// wrap applies the standard middleware chain to a handler.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return s.metricsMiddleware(SecurityMiddleware(s.security, next))
}

// metricsMiddleware tracks in-flight and total request counts around next.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()
		next(w, r)
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.rejectMethod(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleMetrics serves the Prometheus exposition endpoint.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.rejectMethod(w, r)
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// rejectMethod answers a request with a method the endpoint does not accept.
func (s *Server) rejectMethod(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("method not allowed",
		logging.String("method", r.Method),
		logging.String("path", r.URL.Path))
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

// Run serves until the context is canceled, then shuts down gracefully.
// A nil return means the server stopped because the context ended.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.logger.Info("serving health and metrics", logging.String("addr", s.addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		s.logger.Error("server stopped", err, logging.String("addr", s.addr))
		return err
	}
}
