package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"kvbind/pkg/monitor"
)

// Server publishes benchmark progress while a run is in flight.
type Server struct {
	stats  *monitor.WorkloadStats
	logger *zap.Logger
	mux    *http.ServeMux
	srv    *http.Server
	phase  func() string
}

func NewServer(stats *monitor.WorkloadStats, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{stats: stats, logger: logger, mux: http.NewServeMux()}
	s.mux.Handle("/metrics", promhttp.HandlerFor(stats.Registry(), promhttp.HandlerOpts{}))
	s.mux.HandleFunc("/api/stats", s.handleStats)
	return s
}

// SetPhase installs a callback reporting the current benchmark phase.
func (s *Server) SetPhase(fn func() string) {
	s.phase = fn
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves on addr in the background.
func (s *Server) Start(addr string) {
	s.srv = &http.Server{Addr: addr, Handler: s.mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		s.logger.Info("status server listening", zap.String("addr", addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("status server stopped", zap.Error(err))
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	stats := s.stats.Snapshot()
	if s.phase != nil {
		stats["phase"] = s.phase()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
