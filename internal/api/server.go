// Package api exposes the recommendation engine over HTTP and WebSocket.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PranavKKK2311/Navigate.io-sub000/internal/adaptive"
	"github.com/PranavKKK2311/Navigate.io-sub000/internal/curriculum"
	"github.com/PranavKKK2311/Navigate.io-sub000/internal/store"
)

const maxBodyBytes = 1 << 20

// Catalog supplies the loaded courses.
type Catalog interface {
	Courses() curriculum.Catalog
}

// HealthChecker reports whether a dependency is reachable.
type HealthChecker func(ctx context.Context) error

// Config holds the server's dependencies.
type Config struct {
	Engine  *adaptive.Engine
	Catalog Catalog
	Store   store.Store
	// Checks run on /readyz, keyed by dependency name.
	Checks map[string]HealthChecker
	// Gatherer backs /metrics; nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// Server handles API requests.
type Server struct {
	engine   *adaptive.Engine
	catalog  Catalog
	store    store.Store
	checks   map[string]HealthChecker
	gatherer prometheus.Gatherer
}

// New creates a server. Engine, Catalog and Store are required.
func New(cfg Config) *Server {
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		engine:   cfg.Engine,
		catalog:  cfg.Catalog,
		store:    cfg.Store,
		checks:   cfg.Checks,
		gatherer: gatherer,
	}
}

// Handler returns the HTTP router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /v1/recommendations", s.handleRecommendations)
	mux.HandleFunc("POST /v1/analysis", s.handleAnalysis)
	mux.HandleFunc("GET /v1/students/{id}/recommendations", s.handleStudentRecommendations)
	mux.HandleFunc("POST /v1/students/{id}/assessments", s.handleRecordAssessment)
	mux.HandleFunc("PUT /v1/students/{id}/progress", s.handleSaveProgress)
	mux.HandleFunc("GET /v1/ws", s.handleWebSocket)

	return instrument(mux)
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	failed := map[string]string{}
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			slog.Warn("readiness check failed", "dependency", name, "error", err)
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "not ready", "failed": failed})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}
