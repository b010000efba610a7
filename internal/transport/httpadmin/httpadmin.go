// Package httpadmin exposes a read-only /healthz and /status surface over
// chi, separate from the MCP tool surface, for operators and load
// balancers that can't speak JSON-RPC.
package httpadmin

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/masc-mcp/masc-mcp/internal/room"
)

// NewRouter builds the admin HTTP router against r.
func NewRouter(r *room.Room) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		health := r.HealthCheck()
		w.Header().Set("Content-Type", "application/json")
		if !health.Healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(health)
	})

	router.Get("/status", func(w http.ResponseWriter, req *http.Request) {
		status, err := r.Status()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(status)
	})

	return router
}
