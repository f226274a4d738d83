// Package httptransport assembles the public HTTP surface: module handlers,
// the cross-cutting middleware chain, and the operational endpoints.
package httptransport

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vocilia/internal/platform/middleware"
	"vocilia/pkg/platform/httputil"
)

// Registrar mounts one module's endpoints on the router. Module handlers
// implement this so the router never imports domain packages.
type Registrar interface {
	Register(r chi.Router)
}

// ReadyCheck probes one backing dependency. Readiness fails when any check
// fails; processes running on memory stores register none.
type ReadyCheck func(ctx context.Context) error

// NewRouter wires middleware, module handlers, and the operational endpoints.
func NewRouter(handlers []Registrar, checks ...ReadyCheck) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)

	for _, h := range handlers {
		h.Register(r)
	}

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady(checks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReady(checks []ReadyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		for _, check := range checks {
			if err := check(ctx); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
					"reason": err.Error(),
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
