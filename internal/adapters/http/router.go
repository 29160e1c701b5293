// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/loyalnest/service-bootstrap/internal/adapters/http/dto"
	"github.com/loyalnest/service-bootstrap/internal/adapters/http/handlers"
)

var (
	errRouteNotFound    = errors.New("no route matches the request path")
	errMethodNotAllowed = errors.New("method not allowed for this route")
)

// HealthPath returns the aggregated health route for prefix, e.g. "api"
// yields "/api/health". An empty prefix yields "/health".
func HealthPath(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return "/health"
	}
	return "/" + prefix + "/health"
}

// LivePath returns the liveness route for prefix, e.g. "/api/health/live".
func LivePath(prefix string) string {
	return HealthPath(prefix) + "/live"
}

// NewRouter creates an HTTP handler with the health routes registered under
// prefix. Middleware is applied globally in the order given.
func NewRouter(
	prefix string,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		dto.WriteErrorResponse(w, r, http.StatusNotFound, errRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		dto.WriteErrorResponse(w, r, http.StatusMethodNotAllowed, errMethodNotAllowed)
	})

	r.Get(HealthPath(prefix), healthHandler.Health)
	r.Get(LivePath(prefix), healthHandler.Liveness)

	return r
}
