package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AdminServer exposes metrics and a health probe on a separate address.
// It never serves content.
type AdminServer struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewAdminRouter builds the admin routes around gatherer.
func NewAdminRouter(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}

// NewAdminServer 创建管理端 HTTP 服务。
func NewAdminServer(addr string, gatherer prometheus.Gatherer, logger *slog.Logger) *AdminServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminServer{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      NewAdminRouter(gatherer),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start 启动管理端服务，直到 Shutdown 被调用。
func (s *AdminServer) Start() error {
	s.logger.Info("admin server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("admin server error: %w", err)
	}
	return nil
}

// Shutdown 优雅关闭管理端服务。
func (s *AdminServer) Shutdown(ctx context.Context) error {
	s.logger.Info("admin server shutting down")
	return s.httpServer.Shutdown(ctx)
}
