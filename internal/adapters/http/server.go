// Package http serves the optional diagnostics listener: Prometheus metrics,
// a health check and the tool catalog.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/mcp"
)

// Catalog lists the tools the gateway exposes.
type Catalog interface {
	ListTools() *mcp.ListToolsResult
}

// Health describes the gateway for /healthz.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Backend string `json:"backend"`
	Tools   int    `json:"tools"`
}

// Server holds the collaborators behind the diagnostics routes.
// A nil Logger falls back to slog.Default().
type Server struct {
	Catalog Catalog
	Metrics http.Handler
	Logger  *slog.Logger
	Version string
	Backend string
}

// NewHandler creates the diagnostics router.
// A nil Metrics handler leaves /metrics unmounted.
func NewHandler(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	r.Get("/healthz", s.Healthz)
	r.Get("/tools", s.Tools)
	return r
}

// Healthz handles the GET /healthz request.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, Health{
		Status:  "ok",
		Version: s.Version,
		Backend: s.Backend,
		Tools:   len(s.Catalog.ListTools().Tools),
	})
}

// Tools handles the GET /tools request with the tools/list payload.
func (s *Server) Tools(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.Catalog.ListTools())
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger().Warn("Diagnostics encode error", "error", err)
	}
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Serve serves h on ln until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, ln net.Listener, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Diagnostics listener started", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("Diagnostics listener stopped")
		return nil
	}
}
